package service

import (
	"context"
	"encoding/json"

	classificationdomain "github.com/printhaus/printhaus/internal/classification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo classificationdomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo classificationdomain.Repository
}

func New(p Params) classificationdomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("classification.service"),
		repo: p.Repo,
	}
}

func (s *Service) Classify(ctx context.Context, productSlug string) (classificationdomain.KeySet, error) {
	row, err := s.repo.FindBySlug(ctx, s.db, productSlug)
	if err != nil {
		return classificationdomain.KeySet{}, err
	}
	if row == nil {
		return classificationdomain.DefaultKeySet, nil
	}

	keys := classificationdomain.KeySet{
		Main:     decodeKeys(row.MainKeys),
		Modifier: decodeKeys(row.ModifierKeys),
	}
	if len(keys.Main) == 0 && len(keys.Modifier) == 0 {
		s.log.Warn("empty classification row, using defaults",
			zap.String("product_slug", productSlug),
		)
		return classificationdomain.DefaultKeySet, nil
	}
	return keys, nil
}

// decodeKeys reads a stored JSON array, tolerating malformed text the same
// way price-row attrs are tolerated.
func decodeKeys(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil
	}
	return keys
}
