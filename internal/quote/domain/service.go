package domain

import (
	"context"
	"errors"
)

type Service interface {
	Quote(ctx context.Context, req Request) (*Result, error)
}

var (
	ErrInvalidQuantity = errors.New("invalid_quantity")

	// ErrServiceNotFound means no price rows exist for the product slug.
	ErrServiceNotFound = errors.New("service_not_found")

	// ErrNoMainConfiguration means no main-classified row matched the
	// caller's selection.
	ErrNoMainConfiguration = errors.New("no_main_configuration")

	// ErrNoTiers means a matched row prices by tiers but has none.
	ErrNoTiers = errors.New("no_tiers_configured")
)
