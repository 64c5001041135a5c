package domain

import (
	"context"
	"errors"
)

// OptionModel is the normalized option model for one product: the attribute
// keys observed across its price rows and the distinct values per key.
// Key and value order is first-seen row order, not alphabetical; callers
// must not rely on any other ordering.
type OptionModel struct {
	OptionKeys []string            `json:"optionKeys"`
	Options    map[string][]string `json:"options"`
}

type Service interface {
	Products(ctx context.Context) ([]string, error)
	Options(ctx context.Context, productSlug string) (*OptionModel, error)
}

var (
	ErrNotFound = errors.New("not_found")
)
