package domain

import (
	"github.com/shopspring/decimal"
)

// Request carries everything needed to price one configuration. Selection
// holds attribute name -> chosen value pairs plus reserved keys (Rush, Qty,
// price display values) that never participate in row matching. Extras are
// order options orthogonal to the attribute selection.
type Request struct {
	Slug      string
	Qty       int64
	Selection map[string]string
	Extras    Extras
}

type Extras struct {
	Turnaround string `json:"turnaround"`
	Delivery   string `json:"delivery"`
}

// Item is one applied modifier in the breakdown.
type Item struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type Base struct {
	Net decimal.Decimal `json:"net"`
}

type Modifiers struct {
	Add   decimal.Decimal `json:"add"`
	Items []Item          `json:"items"`
}

// Breakdown is the immutable result of a quote.
type Breakdown struct {
	Base      Base            `json:"base"`
	Modifiers Modifiers       `json:"modifiers"`
	Net       decimal.Decimal `json:"net"`
	VAT       decimal.Decimal `json:"vat"`
	Gross     decimal.Decimal `json:"gross"`
	Unit      decimal.Decimal `json:"unit"`
}

// Debug echoes the inputs and matched rows for support and audit. It plays
// no part in pricing.
type Debug struct {
	Service        string            `json:"service"`
	Qty            int64             `json:"qty"`
	Selection      map[string]string `json:"selection"`
	MainRowID      string            `json:"main_row_id"`
	ModifierRowIDs []string          `json:"modifier_row_ids"`
}

type Result struct {
	Breakdown Breakdown `json:"breakdown"`
	Debug     Debug     `json:"debug"`
}
