package repository

import (
	"context"

	catalogdomain "github.com/printhaus/printhaus/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() catalogdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, row *catalogdomain.PriceRow) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO price_rows (
			id, product_slug, attrs, rule_kind, unit_amount, setup_amount,
			fixed_amount, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID,
		row.ProductSlug,
		row.Attrs,
		row.RuleKind,
		row.UnitAmount,
		row.SetupAmount,
		row.FixedAmount,
		row.Active,
		row.CreatedAt,
		row.UpdatedAt,
	).Error
}

func (r *repo) InsertTier(ctx context.Context, db *gorm.DB, tier *catalogdomain.PriceTier) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO price_tiers (
			id, price_row_id, qty, unit_amount, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		tier.ID,
		tier.PriceRowID,
		tier.Qty,
		tier.UnitAmount,
		tier.CreatedAt,
		tier.UpdatedAt,
	).Error
}

func (r *repo) ListByProduct(ctx context.Context, db *gorm.DB, productSlug string) ([]catalogdomain.PriceRow, error) {
	var rows []catalogdomain.PriceRow
	err := db.WithContext(ctx).
		Where("product_slug = ? AND is_active = ?", productSlug, true).
		Order("id ASC").
		Preload("Tiers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("qty ASC")
		}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListProductSlugs(ctx context.Context, db *gorm.DB) ([]string, error) {
	var slugs []string
	err := db.WithContext(ctx).Raw(
		`SELECT DISTINCT product_slug FROM price_rows WHERE is_active = ? ORDER BY product_slug ASC`,
		true,
	).Scan(&slugs).Error
	if err != nil {
		return nil, err
	}
	return slugs, nil
}
