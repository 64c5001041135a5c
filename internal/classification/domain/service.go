package domain

import (
	"context"
)

// DefaultKeySet applies when a product has no stored classification. The
// core print attributes identify the base product; finishing attributes
// identify add-ons.
var DefaultKeySet = KeySet{
	Main:     []string{"Size", "Sides", "Paper", "Stock", "GSM", "Color", "Fold"},
	Modifier: []string{"Lamination", "Corners", "Finishing"},
}

type Service interface {
	// Classify returns the main/modifier key sets for a product. Products
	// without a stored classification fall back to DefaultKeySet.
	Classify(ctx context.Context, productSlug string) (KeySet, error)
}
