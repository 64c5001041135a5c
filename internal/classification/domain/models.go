package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// AttributeClassification declares, per product, which attribute keys
// identify the base product (main) versus an add-on (modifier).
type AttributeClassification struct {
	ID           snowflake.ID   `json:"id" gorm:"primaryKey"`
	ProductSlug  string         `json:"product_slug" gorm:"column:product_slug;not null;uniqueIndex"`
	MainKeys     datatypes.JSON `json:"main_keys" gorm:"type:text;not null"`
	ModifierKeys datatypes.JSON `json:"modifier_keys" gorm:"type:text;not null"`
	CreatedAt    time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (AttributeClassification) TableName() string { return "attribute_classifications" }

// KeySet is the in-memory form consumed once per quote request.
type KeySet struct {
	Main     []string
	Modifier []string
}

func (k KeySet) HasMain(key string) bool     { return containsKey(k.Main, key) }
func (k KeySet) HasModifier(key string) bool { return containsKey(k.Modifier, key) }

func containsKey(keys []string, key string) bool {
	for _, candidate := range keys {
		if candidate == key {
			return true
		}
	}
	return false
}
