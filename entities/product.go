package entities

import (
	"github.com/google/uuid"
)

type Product struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	EAN              *string   `gorm:"uniqueIndex;size:13" json:"ean,omitempty"`
	Brand            string    `json:"brand,omitempty"`
	NameNorm         string    `gorm:"index" json:"name_norm"`
	PackageSizeValue *float64  `json:"package_size_value,omitempty"`
	PackageSizeUOM   string    `gorm:"size:10" json:"package_size_uom,omitempty"` // g, kg, ml, l

	Aliases []*Alias `gorm:"foreignKey:ProductID"`
	Timestamp
}

// Alias maps a raw receipt description pattern to exactly one product.
type Alias struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ProductID      uuid.UUID `gorm:"index" json:"product_id"`
	RawNamePattern string    `json:"raw_name_pattern"`

	Product *Product `gorm:"foreignKey:ProductID"`
	Timestamp
}
