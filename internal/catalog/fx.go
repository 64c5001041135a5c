package catalog

import (
	"github.com/printhaus/printhaus/internal/catalog/repository"
	"github.com/printhaus/printhaus/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
