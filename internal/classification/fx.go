package classification

import (
	"github.com/printhaus/printhaus/internal/classification/repository"
	"github.com/printhaus/printhaus/internal/classification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("classification.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
