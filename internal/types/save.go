package types

import (
	"time"

	"github.com/google/uuid"
)

// Save is a user's bookmark of an establishment, identified by the
// (user, establishment) pair.
type Save struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_save_pair,unique" json:"user_id"`
	EstablishmentID uuid.UUID      `gorm:"type:uuid;not null;index:idx_save_pair,unique" json:"establishment_id"`
	Establishment   *Establishment `gorm:"constraint:OnDelete:CASCADE;foreignKey:EstablishmentID;references:ID" json:"establishment,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (Save) TableName() string { return "save" }
