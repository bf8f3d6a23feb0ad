package types

import "github.com/google/uuid"

type MarkerType string

const (
	MarkerTypeSave      MarkerType = "save"
	MarkerTypeFollowing MarkerType = "following"
	MarkerTypePost      MarkerType = "post"
)

// Weight orders marker types for rendering: saves above following posts
// above own posts.
func (t MarkerType) Weight() int {
	switch t {
	case MarkerTypeSave:
		return 3
	case MarkerTypeFollowing:
		return 2
	case MarkerTypePost:
		return 1
	}
	return 0
}

// Marker is a read-only map projection. At most one Marker exists per
// establishment id in a rendered collection; when several sources reference
// the same establishment the highest-priority source wins.
type Marker struct {
	ID                 uuid.UUID  `json:"id"`
	EstablishmentName  string     `json:"establishment_name"`
	Latitude           float64    `json:"latitude"`
	Longitude          float64    `json:"longitude"`
	Tags               []string   `json:"tags,omitempty"`
	AverageRating      float64    `json:"average_rating"`
	Type               MarkerType `json:"type"`
	UserProfilePicture string     `json:"user_profile_picture,omitempty"`
}
