package domain

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type RuleKind string

const (
	RuleKindTiers   RuleKind = "tiers"
	RuleKindPerUnit RuleKind = "per_unit"
	RuleKindFixed   RuleKind = "fixed"
)

// PriceRow is one pricing rule tied to a combination of product attributes.
// A row either identifies the base product (its attrs carry main keys) or an
// add-on (its attrs carry modifier keys).
type PriceRow struct {
	ID          snowflake.ID     `json:"id" gorm:"primaryKey"`
	ProductSlug string           `json:"product_slug" gorm:"column:product_slug;not null;index"`
	Attrs       datatypes.JSON   `json:"attrs" gorm:"type:text"`
	RuleKind    RuleKind         `json:"rule_kind" gorm:"type:text;not null;default:tiers"`
	UnitAmount  *decimal.Decimal `json:"unit_amount,omitempty" gorm:"type:numeric"`
	SetupAmount *decimal.Decimal `json:"setup_amount,omitempty" gorm:"type:numeric"`
	FixedAmount *decimal.Decimal `json:"fixed_amount,omitempty" gorm:"type:numeric"`
	Active      bool             `json:"is_active" gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time        `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Tiers []PriceTier `json:"tiers,omitempty" gorm:"foreignKey:PriceRowID"`
}

func (PriceRow) TableName() string { return "price_rows" }

// AttrMap deserializes the row's attrs tolerantly. Catalog rows written by
// older tooling may carry non-string values or malformed text; anything that
// cannot be read becomes an empty map rather than an error.
func (r *PriceRow) AttrMap() map[string]string {
	if len(r.Attrs) == 0 {
		return map[string]string{}
	}

	var direct map[string]string
	if err := json.Unmarshal(r.Attrs, &direct); err == nil {
		return direct
	}

	var loose map[string]any
	if err := json.Unmarshal(r.Attrs, &loose); err != nil {
		return map[string]string{}
	}

	out := make(map[string]string, len(loose))
	for k, v := range loose {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		}
	}
	return out
}

// PriceTier is a quantity breakpoint with a unit rate, owned by one PriceRow.
type PriceTier struct {
	ID         snowflake.ID    `json:"id" gorm:"primaryKey"`
	PriceRowID snowflake.ID    `json:"price_row_id" gorm:"column:price_row_id;not null;index"`
	Qty        int64           `json:"qty" gorm:"not null"`
	UnitAmount decimal.Decimal `json:"unit_amount" gorm:"type:numeric;not null"`
	CreatedAt  time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PriceTier) TableName() string { return "price_tiers" }
