package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, row *PriceRow) error
	InsertTier(ctx context.Context, db *gorm.DB, tier *PriceTier) error
	// ListByProduct returns the active rows for a product with tiers
	// preloaded in ascending qty order.
	ListByProduct(ctx context.Context, db *gorm.DB, productSlug string) ([]PriceRow, error)
	ListProductSlugs(ctx context.Context, db *gorm.DB) ([]string, error)
}
