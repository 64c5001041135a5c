package migration

import (
	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/printhaus/printhaus/internal/catalog/domain"
	classificationdomain "github.com/printhaus/printhaus/internal/classification/domain"
	"github.com/printhaus/printhaus/internal/config"
	"github.com/printhaus/printhaus/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
		// golang-migrate drives postgres; sqlite and mysql dev setups lean
		// on AutoMigrate instead.
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := conn.AutoMigrate(
				&catalogdomain.PriceRow{},
				&catalogdomain.PriceTier{},
				&classificationdomain.AttributeClassification{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoCatalog {
			return seed.EnsureDemoCatalog(conn, genID)
		}
		return nil
	}),
)
