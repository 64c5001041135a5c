package seed

import (
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	catalogdomain "github.com/printhaus/printhaus/internal/catalog/domain"
	classificationdomain "github.com/printhaus/printhaus/internal/classification/domain"
	"github.com/printhaus/printhaus/pkg/db"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type demoTier struct {
	qty  int64
	unit string
}

type demoRow struct {
	attrs    map[string]string
	ruleKind catalogdomain.RuleKind
	unit     string
	tiers    []demoTier
}

type demoProduct struct {
	name         string
	mainKeys     []string
	modifierKeys []string
	rows         []demoRow
}

var demoCatalog = []demoProduct{
	{
		name:         "Business Cards",
		mainKeys:     []string{"Size", "Paper", "Sides"},
		modifierKeys: []string{"Finishing", "Lamination", "Corners"},
		rows: []demoRow{
			{
				attrs:    map[string]string{"Size": "85x55", "Paper": "350gsm Silk", "Sides": "Double"},
				ruleKind: catalogdomain.RuleKindTiers,
				tiers: []demoTier{
					{qty: 100, unit: "0.20"},
					{qty: 500, unit: "0.15"},
					{qty: 1000, unit: "0.10"},
				},
			},
			{
				attrs:    map[string]string{"Size": "85x55", "Paper": "400gsm Matt", "Sides": "Double"},
				ruleKind: catalogdomain.RuleKindTiers,
				tiers: []demoTier{
					{qty: 100, unit: "0.24"},
					{qty: 500, unit: "0.18"},
					{qty: 1000, unit: "0.12"},
				},
			},
			{
				attrs:    map[string]string{"Finishing": "Spot UV"},
				ruleKind: catalogdomain.RuleKindPerUnit,
				unit:     "0.10",
			},
		},
	},
	{
		name:         "Flyers A5",
		mainKeys:     []string{"Size", "Paper", "Sides"},
		modifierKeys: []string{"Finishing", "Lamination", "Corners"},
		rows: []demoRow{
			{
				attrs:    map[string]string{"Size": "A5", "Paper": "130gsm Gloss", "Sides": "Single"},
				ruleKind: catalogdomain.RuleKindTiers,
				tiers: []demoTier{
					{qty: 250, unit: "0.12"},
					{qty: 500, unit: "0.09"},
					{qty: 1000, unit: "0.06"},
				},
			},
			{
				attrs:    map[string]string{"Size": "A5", "Paper": "170gsm Gloss", "Sides": "Double"},
				ruleKind: catalogdomain.RuleKindTiers,
				tiers: []demoTier{
					{qty: 250, unit: "0.16"},
					{qty: 500, unit: "0.12"},
					{qty: 1000, unit: "0.08"},
				},
			},
		},
	},
}

// EnsureDemoCatalog loads the demo products when the store is empty for
// them. Re-running against a seeded store is a no-op; duplicate key errors
// from concurrent startups are swallowed.
func EnsureDemoCatalog(conn *gorm.DB, genID *snowflake.Node) error {
	for _, product := range demoCatalog {
		productSlug := slug.Make(product.name)

		var count int64
		if err := conn.Model(&catalogdomain.PriceRow{}).
			Where("product_slug = ?", productSlug).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		for _, row := range product.rows {
			if err := seedRow(conn, genID, productSlug, row); err != nil {
				return err
			}
		}

		if err := seedClassification(conn, genID, productSlug, product); err != nil {
			return err
		}
	}
	return nil
}

func seedRow(conn *gorm.DB, genID *snowflake.Node, productSlug string, row demoRow) error {
	attrs, err := json.Marshal(row.attrs)
	if err != nil {
		return err
	}

	priceRow := catalogdomain.PriceRow{
		ID:          genID.Generate(),
		ProductSlug: productSlug,
		Attrs:       datatypes.JSON(attrs),
		RuleKind:    row.ruleKind,
		Active:      true,
	}
	if row.unit != "" {
		unit, err := decimal.NewFromString(row.unit)
		if err != nil {
			return err
		}
		priceRow.UnitAmount = &unit
	}

	if err := conn.Create(&priceRow).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}

	for _, tier := range row.tiers {
		unit, err := decimal.NewFromString(tier.unit)
		if err != nil {
			return err
		}
		priceTier := catalogdomain.PriceTier{
			ID:         genID.Generate(),
			PriceRowID: priceRow.ID,
			Qty:        tier.qty,
			UnitAmount: unit,
		}
		if err := conn.Create(&priceTier).Error; err != nil && !db.IsDuplicateKeyErr(err) {
			return err
		}
	}
	return nil
}

func seedClassification(conn *gorm.DB, genID *snowflake.Node, productSlug string, product demoProduct) error {
	mainKeys, err := json.Marshal(product.mainKeys)
	if err != nil {
		return err
	}
	modifierKeys, err := json.Marshal(product.modifierKeys)
	if err != nil {
		return err
	}

	classification := classificationdomain.AttributeClassification{
		ID:           genID.Generate(),
		ProductSlug:  productSlug,
		MainKeys:     datatypes.JSON(mainKeys),
		ModifierKeys: datatypes.JSON(modifierKeys),
	}
	if err := conn.Create(&classification).Error; err != nil && !db.IsDuplicateKeyErr(err) {
		return err
	}
	return nil
}
