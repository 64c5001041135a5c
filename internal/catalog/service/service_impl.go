package service

import (
	"context"
	"sort"

	catalogdomain "github.com/printhaus/printhaus/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// preferredOptionKeys are listed first in every option model so selection
// UIs render the core print attributes in a stable order.
var preferredOptionKeys = []string{
	"Size", "Sides", "Paper", "Stock", "GSM", "Lamination", "Corners", "Color", "Fold",
}

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo catalogdomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo catalogdomain.Repository
}

func New(p Params) catalogdomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("catalog.service"),
		repo: p.Repo,
	}
}

func (s *Service) Products(ctx context.Context) ([]string, error) {
	return s.repo.ListProductSlugs(ctx, s.db)
}

// Options builds the normalized option model for a product: the union of
// attribute keys across its rows with the distinct values seen per key.
func (s *Service) Options(ctx context.Context, productSlug string) (*catalogdomain.OptionModel, error) {
	rows, err := s.repo.ListByProduct(ctx, s.db, productSlug)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, catalogdomain.ErrNotFound
	}

	seenKeys := make(map[string]bool)
	var keysInRowOrder []string
	options := make(map[string][]string)
	seenValues := make(map[string]map[string]bool)

	for i := range rows {
		attrs := rows[i].AttrMap()
		// Walk preferred keys first, then the remainder, so value order
		// within a key still follows row order.
		for _, key := range orderedAttrKeys(attrs) {
			if !seenKeys[key] {
				seenKeys[key] = true
				keysInRowOrder = append(keysInRowOrder, key)
				seenValues[key] = make(map[string]bool)
			}
			value := attrs[key]
			if value == "" || seenValues[key][value] {
				continue
			}
			seenValues[key][value] = true
			options[key] = append(options[key], value)
		}
	}

	// Preferred domain keys lead; any remaining keys keep first-seen order.
	optionKeys := make([]string, 0, len(keysInRowOrder))
	preferred := make(map[string]bool, len(preferredOptionKeys))
	for _, key := range preferredOptionKeys {
		preferred[key] = true
		if seenKeys[key] {
			optionKeys = append(optionKeys, key)
		}
	}
	for _, key := range keysInRowOrder {
		if !preferred[key] {
			optionKeys = append(optionKeys, key)
		}
	}

	return &catalogdomain.OptionModel{
		OptionKeys: optionKeys,
		Options:    options,
	}, nil
}

// orderedAttrKeys yields a row's attribute keys with internal keys dropped
// and a deterministic order independent of map iteration.
func orderedAttrKeys(attrs map[string]string) []string {
	out := make([]string, 0, len(attrs))
	for _, key := range preferredOptionKeys {
		if _, ok := attrs[key]; ok {
			out = append(out, key)
		}
	}
	rest := make([]string, 0, len(attrs))
	for key := range attrs {
		if isInternalAttrKey(key) {
			continue
		}
		if !containsKey(out, key) {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func isInternalAttrKey(key string) bool {
	return len(key) > 0 && key[0] == '_'
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

