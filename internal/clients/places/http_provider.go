package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
)

// httpProvider talks to a JSON place-search API. The wire protocol is not
// part of the core contract; this client only maps responses onto the
// Provider types.
type httpProvider struct {
	log     *logger.Logger
	client  *http.Client
	baseURL string
	token   string
}

func NewHTTPProvider(log *logger.Logger) (Provider, error) {
	baseURL := strings.TrimSpace(os.Getenv("PLACES_API_BASE_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("missing env var PLACES_API_BASE_URL")
	}
	token := strings.TrimSpace(os.Getenv("PLACES_API_TOKEN"))

	return &httpProvider{
		log:     log.With("client", "PlacesProvider"),
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
	}, nil
}

func (p *httpProvider) Suggest(ctx context.Context, query string, proximity *Proximity) ([]Suggestion, error) {
	q := url.Values{}
	q.Set("q", query)
	if p.token != "" {
		q.Set("access_token", p.token)
	}
	if proximity != nil {
		q.Set("proximity", fmt.Sprintf("%f,%f", proximity.Longitude, proximity.Latitude))
	}

	var payload struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := p.getJSON(ctx, "/suggest?"+q.Encode(), &payload); err != nil {
		return nil, err
	}
	return payload.Suggestions, nil
}

func (p *httpProvider) Retrieve(ctx context.Context, placeID string) (*Details, error) {
	q := url.Values{}
	if p.token != "" {
		q.Set("access_token", p.token)
	}

	var payload Details
	if err := p.getJSON(ctx, "/retrieve/"+url.PathEscape(placeID)+"?"+q.Encode(), &payload); err != nil {
		return nil, err
	}
	if payload.PlaceID == "" {
		payload.PlaceID = placeID
	}
	return &payload, nil
}

func (p *httpProvider) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("places request: %w: %w", apperr.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperr.NotFoundf("place %s", path)
	case resp.StatusCode >= 500:
		return fmt.Errorf("places responded %d: %w", resp.StatusCode, apperr.ErrUpstreamUnavailable)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("places responded %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode places response: %w", err)
	}
	return nil
}
