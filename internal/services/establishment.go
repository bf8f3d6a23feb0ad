package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/clients/places"
	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/repos"
	"github.com/forkful/forkful-backend/internal/types"
)

type EstablishmentService interface {
	Get(ctx context.Context, id uuid.UUID) (*types.Establishment, error)
	// EnsureFromPlace resolves a provider place into an establishment,
	// creating it on first reference.
	EnsureFromPlace(ctx context.Context, placeID string) (*types.Establishment, error)
	SuggestPlaces(ctx context.Context, query string, proximity *places.Proximity) ([]places.Suggestion, error)
}

type establishmentService struct {
	db       *gorm.DB
	log      *logger.Logger
	estRepo  repos.EstablishmentRepo
	provider places.Provider
}

func NewEstablishmentService(db *gorm.DB, log *logger.Logger, estRepo repos.EstablishmentRepo, provider places.Provider) EstablishmentService {
	return &establishmentService{
		db:       db,
		log:      log.With("service", "EstablishmentService"),
		estRepo:  estRepo,
		provider: provider,
	}
}

func (es *establishmentService) Get(ctx context.Context, id uuid.UUID) (*types.Establishment, error) {
	return es.estRepo.GetByID(ctx, nil, id)
}

func (es *establishmentService) EnsureFromPlace(ctx context.Context, placeID string) (*types.Establishment, error) {
	existing, err := es.estRepo.GetByPlaceID(ctx, nil, placeID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	details, err := es.provider.Retrieve(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("retrieve place %s: %w", placeID, err)
	}

	lat := details.Latitude
	lng := details.Longitude
	est := &types.Establishment{
		PlaceID:   details.PlaceID,
		Name:      details.Name,
		Address:   details.Address,
		City:      details.City,
		Country:   details.Country,
		Latitude:  &lat,
		Longitude: &lng,
		Tags:      datatypes.NewJSONSlice([]string{}),
	}
	created, err := es.estRepo.Create(ctx, nil, est)
	if err != nil {
		// A concurrent request may have created the same place; the unique
		// index on place_id makes the read below authoritative.
		if fromRace, raceErr := es.estRepo.GetByPlaceID(ctx, nil, placeID); raceErr == nil {
			return fromRace, nil
		}
		return nil, err
	}
	return created, nil
}

func (es *establishmentService) SuggestPlaces(ctx context.Context, query string, proximity *places.Proximity) ([]places.Suggestion, error) {
	return es.provider.Suggest(ctx, query, proximity)
}
