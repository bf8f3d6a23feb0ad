package places

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
)

func newTestProvider(t *testing.T, handler http.Handler) Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("PLACES_API_BASE_URL", srv.URL)
	t.Setenv("PLACES_API_TOKEN", "test-token")

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)

	provider, err := NewHTTPProvider(log)
	if err != nil {
		t.Fatalf("init provider: %v", err)
	}
	return provider
}

func TestSuggest(t *testing.T) {
	provider := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "ramen" {
			t.Errorf("query: want=ramen got=%q", got)
		}
		if got := r.URL.Query().Get("access_token"); got != "test-token" {
			t.Errorf("token: got=%q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"suggestions": []Suggestion{{PlaceID: "p1", Name: "Ramen Bar", Address: "1 Noodle St"}},
		})
	}))

	got, err := provider.Suggest(context.Background(), "ramen", &Proximity{Latitude: 43.6, Longitude: -79.3})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 1 || got[0].PlaceID != "p1" {
		t.Fatalf("suggestions: got=%+v", got)
	}
}

func TestRetrieve(t *testing.T) {
	provider := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Details{Name: "Ramen Bar", City: "Toronto", Latitude: 43.6, Longitude: -79.3})
	}))

	got, err := provider.Retrieve(context.Background(), "p1")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got.City != "Toronto" {
		t.Fatalf("city: got=%q", got.City)
	}
	// The provider backfills the place id when the payload omits it.
	if got.PlaceID != "p1" {
		t.Fatalf("placeID: want=p1 got=%q", got.PlaceID)
	}
}

func TestRetrieveNotFound(t *testing.T) {
	provider := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := provider.Retrieve(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got=%v", err)
	}
}

func TestRetrieveServerError(t *testing.T) {
	provider := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := provider.Retrieve(context.Background(), "p1")
	if !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Fatalf("want ErrUpstreamUnavailable, got=%v", err)
	}
}

func TestNewHTTPProviderRequiresBaseURL(t *testing.T) {
	t.Setenv("PLACES_API_BASE_URL", "")

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)

	if _, err := NewHTTPProvider(log); err == nil {
		t.Fatalf("expected error without base url")
	}
}
