package places

import (
	"context"
)

type Suggestion struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type Details struct {
	PlaceID   string  `json:"place_id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Proximity struct {
	Latitude  float64
	Longitude float64
}

// Provider is the black-box place-search capability. Only the returned
// fields are consumed, to populate new establishments.
type Provider interface {
	Suggest(ctx context.Context, query string, proximity *Proximity) ([]Suggestion, error)
	Retrieve(ctx context.Context, placeID string) (*Details, error)
}
