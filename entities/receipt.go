package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReceiptStatusQueued     = "queued"
	ReceiptStatusProcessing = "processing"
	ReceiptStatusReady      = "ready"
	ReceiptStatusFailed     = "failed"
)

type Receipt struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID  `gorm:"index" json:"user_id"`
	StoreID     *uuid.UUID `json:"store_id,omitempty"`
	FileKey     string     `json:"file_key"`
	Status      string     `gorm:"default:queued" json:"status"` // queued, processing, ready, failed
	PurchasedAt *time.Time `json:"purchased_at,omitempty"`

	OcrConfidence *float64 `json:"ocr_confidence,omitempty"`
	TotalAmount   *float64 `json:"total_amount,omitempty"`
	Currency      string   `gorm:"size:3;default:EUR" json:"currency"`

	// Operator-only failure cause; never exposed beyond the generic status.
	FailureReason string `gorm:"type:text" json:"-"`

	User      *User       `gorm:"foreignKey:UserID"`
	Store     *Store      `gorm:"foreignKey:StoreID"`
	LineItems []*LineItem `gorm:"foreignKey:ReceiptID"`
	Timestamp
}

type LineItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ReceiptID uuid.UUID  `gorm:"index" json:"receipt_id"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`

	RawDesc      string   `gorm:"type:text" json:"raw_desc"`
	Qty          float64  `gorm:"default:1" json:"qty"`
	PriceTotal   float64  `json:"price_total"`
	UnitPrice    *float64 `json:"unit_price,omitempty"`
	UnitPriceUOM string   `gorm:"size:10" json:"unit_price_uom,omitempty"`
	SizeValue    *float64 `json:"size_value,omitempty"`
	SizeUOM      string   `gorm:"size:10" json:"size_uom,omitempty"`

	ConfidenceDesc  float64 `json:"confidence_desc"`
	ConfidencePrice float64 `json:"confidence_price"`

	Receipt *Receipt `gorm:"foreignKey:ReceiptID"`
	Product *Product `gorm:"foreignKey:ProductID"`
	Timestamp
}
