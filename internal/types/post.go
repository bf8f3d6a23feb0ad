package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Ratings is the per-post rating breakdown. Overall is the component that
// feeds the establishment running average.
type Ratings struct {
	Ambiance    float64 `json:"ambiance"`
	FoodQuality float64 `json:"food_quality"`
	Service     float64 `json:"service"`
	Overall     float64 `json:"overall"`
}

// Post is a user contribution about an establishment. It is created as a
// draft (no images, no review) and finalized exactly once; finalization is
// the event that updates the establishment aggregates.
type Post struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	EstablishmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"establishment_id"`
	Establishment   *Establishment `gorm:"constraint:OnDelete:CASCADE;foreignKey:EstablishmentID;references:ID" json:"establishment,omitempty"`

	// Snapshot of the establishment at posting time.
	EstablishmentName string   `json:"establishment_name"`
	City              string   `json:"city"`
	Country           string   `json:"country"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	RatingAtTime      float64  `json:"rating_at_time"`

	Review    string                        `json:"review"`
	Tags      datatypes.JSONSlice[string]   `gorm:"type:jsonb" json:"tags"`
	Ratings   datatypes.JSONType[Ratings]   `gorm:"type:jsonb" json:"ratings"`
	ImageURLs datatypes.JSONSlice[string]   `gorm:"type:jsonb" json:"image_urls"`

	LikeCount   int        `gorm:"not null;default:0" json:"like_count"`
	Finalized   bool       `gorm:"not null;default:false;index" json:"finalized"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Post) TableName() string { return "post" }
