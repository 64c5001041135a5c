package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/printhaus/printhaus/internal/config"
	"github.com/printhaus/printhaus/internal/migration"
	"github.com/printhaus/printhaus/internal/observability"
	"github.com/printhaus/printhaus/internal/server"
	"github.com/printhaus/printhaus/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
