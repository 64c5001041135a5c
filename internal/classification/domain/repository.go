package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, classification *AttributeClassification) error
	FindBySlug(ctx context.Context, db *gorm.DB, productSlug string) (*AttributeClassification, error)
}
