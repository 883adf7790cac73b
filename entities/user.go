package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name     string    `json:"name"`
	Email    string    `gorm:"uniqueIndex" json:"email"`
	Password string    `json:"-"`
	Role     string    `gorm:"default:user" json:"role"`
	Locale   string    `gorm:"default:it" json:"locale"`

	Verified     bool       `gorm:"default:false" json:"verified"`
	VerifySentAt *time.Time `json:"-"`

	// GDPR bookkeeping; export/delete itself is handled outside this service
	ConsentGivenAt     *time.Time `json:"consent_given_at,omitempty"`
	DataRetentionUntil *time.Time `json:"data_retention_until,omitempty"`

	Timestamp
}
