package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Establishment carries denormalized rating aggregates. AverageRating and
// PostCount are only ever written inside the finalize transaction; a direct
// field write would break the running-average invariant.
type Establishment struct {
	ID            uuid.UUID                  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlaceID       string                     `gorm:"uniqueIndex" json:"place_id,omitempty"`
	Name          string                     `gorm:"not null;index" json:"name"`
	Address       string                     `json:"address"`
	City          string                     `gorm:"not null;index" json:"city"`
	Country       string                     `json:"country"`
	Latitude      *float64                   `json:"latitude,omitempty"`
	Longitude     *float64                   `json:"longitude,omitempty"`
	Tags          datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags"`
	AverageRating float64                    `gorm:"not null;default:0" json:"average_rating"`
	PostCount     int                        `gorm:"not null;default:0" json:"post_count"`
	CreatedAt     time.Time                  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time                  `gorm:"not null;default:now();index" json:"updated_at"`
}

func (Establishment) TableName() string { return "establishment" }

// HasGeocode reports whether the establishment can be placed on a map.
func (e *Establishment) HasGeocode() bool {
	return e != nil && e.Latitude != nil && e.Longitude != nil && e.Name != ""
}
