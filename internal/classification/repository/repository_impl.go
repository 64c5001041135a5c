package repository

import (
	"context"

	classificationdomain "github.com/printhaus/printhaus/internal/classification/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() classificationdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, classification *classificationdomain.AttributeClassification) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO attribute_classifications (
			id, product_slug, main_keys, modifier_keys, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		classification.ID,
		classification.ProductSlug,
		classification.MainKeys,
		classification.ModifierKeys,
		classification.CreatedAt,
		classification.UpdatedAt,
	).Error
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, productSlug string) (*classificationdomain.AttributeClassification, error) {
	var row classificationdomain.AttributeClassification
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_slug, main_keys, modifier_keys, created_at, updated_at
		 FROM attribute_classifications WHERE product_slug = ?`,
		productSlug,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}
