package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/clients/places"
	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/types"
)

type fakeEstablishmentRepo struct {
	byPlaceID map[string]*types.Establishment
	createErr error
	created   *types.Establishment
}

func (f *fakeEstablishmentRepo) Create(ctx context.Context, tx *gorm.DB, est *types.Establishment) (*types.Establishment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	est.ID = uuid.New()
	if f.byPlaceID == nil {
		f.byPlaceID = map[string]*types.Establishment{}
	}
	f.byPlaceID[est.PlaceID] = est
	f.created = est
	return est, nil
}

func (f *fakeEstablishmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Establishment, error) {
	return nil, apperr.NotFoundf("establishment %s", id)
}

func (f *fakeEstablishmentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Establishment, error) {
	return nil, nil
}

func (f *fakeEstablishmentRepo) GetByPlaceID(ctx context.Context, tx *gorm.DB, placeID string) (*types.Establishment, error) {
	if est, ok := f.byPlaceID[placeID]; ok {
		return est, nil
	}
	return nil, apperr.NotFoundf("establishment for place %s", placeID)
}

func (f *fakeEstablishmentRepo) UpdateAggregates(ctx context.Context, tx *gorm.DB, id uuid.UUID, prevPostCount int, newAverage float64, newPostCount int, tags []string, updatedAt time.Time) (bool, error) {
	return false, nil
}

func (f *fakeEstablishmentRepo) UpdatedSince(ctx context.Context, tx *gorm.DB, city string, since time.Time) ([]*types.Establishment, error) {
	return nil, nil
}

type fakeProvider struct {
	details     *places.Details
	retrieveErr error
	calls       int
}

func (f *fakeProvider) Suggest(ctx context.Context, query string, proximity *places.Proximity) ([]places.Suggestion, error) {
	return nil, nil
}

func (f *fakeProvider) Retrieve(ctx context.Context, placeID string) (*places.Details, error) {
	f.calls++
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	return f.details, nil
}

func TestEnsureFromPlaceReturnsExisting(t *testing.T) {
	existing := &types.Establishment{ID: uuid.New(), PlaceID: "place-1", Name: "Existing"}
	repo := &fakeEstablishmentRepo{byPlaceID: map[string]*types.Establishment{"place-1": existing}}
	provider := &fakeProvider{}
	svc := NewEstablishmentService(nil, testLogger(t), repo, provider)

	got, err := svc.EnsureFromPlace(context.Background(), "place-1")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if got.ID != existing.ID {
		t.Fatalf("expected existing establishment")
	}
	if provider.calls != 0 {
		t.Fatalf("provider must not be called for known places")
	}
}

func TestEnsureFromPlaceCreates(t *testing.T) {
	repo := &fakeEstablishmentRepo{}
	provider := &fakeProvider{details: &places.Details{
		PlaceID:   "place-2",
		Name:      "New Spot",
		City:      "Toronto",
		Country:   "Canada",
		Latitude:  43.65,
		Longitude: -79.38,
	}}
	svc := NewEstablishmentService(nil, testLogger(t), repo, provider)

	got, err := svc.EnsureFromPlace(context.Background(), "place-2")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if got.Name != "New Spot" || got.City != "Toronto" {
		t.Fatalf("unexpected establishment: %+v", got)
	}
	if got.Latitude == nil || *got.Latitude != 43.65 {
		t.Fatalf("geocode not captured")
	}
	if repo.created == nil {
		t.Fatalf("expected create call")
	}
}

func TestEnsureFromPlaceProviderFailure(t *testing.T) {
	repo := &fakeEstablishmentRepo{}
	provider := &fakeProvider{retrieveErr: apperr.ErrUpstreamUnavailable}
	svc := NewEstablishmentService(nil, testLogger(t), repo, provider)

	_, err := svc.EnsureFromPlace(context.Background(), "place-3")
	if !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Fatalf("want ErrUpstreamUnavailable, got=%v", err)
	}
}

func TestEnsureFromPlaceCreateRace(t *testing.T) {
	winner := &types.Establishment{ID: uuid.New(), PlaceID: "place-4", Name: "Winner"}
	repo := &racingEstablishmentRepo{
		fakeEstablishmentRepo: &fakeEstablishmentRepo{createErr: errors.New("duplicate key")},
		winner:                winner,
	}
	provider := &fakeProvider{details: &places.Details{PlaceID: "place-4", Name: "Loser"}}
	svc := NewEstablishmentService(nil, testLogger(t), repo, provider)

	got, err := svc.EnsureFromPlace(context.Background(), "place-4")
	if err != nil {
		t.Fatalf("ensure after race: %v", err)
	}
	if got.ID != winner.ID {
		t.Fatalf("expected the concurrent writer's establishment")
	}
}

func TestEnsureFromPlaceCreateErrorWithoutRacer(t *testing.T) {
	repo := &fakeEstablishmentRepo{createErr: errors.New("connection reset")}
	provider := &fakeProvider{details: &places.Details{PlaceID: "place-5", Name: "Spot"}}
	svc := NewEstablishmentService(nil, testLogger(t), repo, provider)

	if _, err := svc.EnsureFromPlace(context.Background(), "place-5"); err == nil {
		t.Fatalf("expected create error to surface when no concurrent writer exists")
	}
}

// racingEstablishmentRepo misses on the first place lookup and hits on the
// second, modeling a concurrent create between them.
type racingEstablishmentRepo struct {
	*fakeEstablishmentRepo
	winner  *types.Establishment
	lookups int
}

func (r *racingEstablishmentRepo) GetByPlaceID(ctx context.Context, tx *gorm.DB, placeID string) (*types.Establishment, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, apperr.NotFoundf("establishment for place %s", placeID)
	}
	return r.winner, nil
}
