package entities

import (
	"time"

	"github.com/google/uuid"
)

// PriceEvent is one observation of "this user paid this unit price for this
// product at this time". Append-only.
type PriceEvent struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID  `gorm:"index:idx_price_events_user_product" json:"user_id"`
	ProductID uuid.UUID  `gorm:"index:idx_price_events_user_product" json:"product_id"`
	StoreID   *uuid.UUID `json:"store_id,omitempty"`

	UnitPrice    float64 `json:"unit_price"`
	UnitPriceUOM string  `gorm:"size:10" json:"unit_price_uom"` // €/100g, €/kg, €/L, €/ml
	// Canonical comparison value, €/100g for mass and €/L for volume.
	PricePer100gOrL float64 `json:"price_per_100g_or_l"`
	// False when the printed unit was not recognized and the value above is
	// the raw unit price carried over as-is.
	Normalized bool `gorm:"default:true" json:"normalized"`

	Ts time.Time `gorm:"index" json:"ts"`

	User    *User    `gorm:"foreignKey:UserID"`
	Product *Product `gorm:"foreignKey:ProductID"`
	Store   *Store   `gorm:"foreignKey:StoreID"`
	Timestamp
}
