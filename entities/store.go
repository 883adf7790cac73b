package entities

import (
	"github.com/google/uuid"
)

type Store struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name    string    `json:"name"`
	Chain   string    `json:"chain,omitempty"`
	Address string    `gorm:"type:text" json:"address,omitempty"`

	Timestamp
}
