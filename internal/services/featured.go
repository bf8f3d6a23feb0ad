package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/repos"
	"github.com/forkful/forkful-backend/internal/types"
)

const (
	featuredWindow    = 30 * 24 * time.Hour
	featuredLimit     = 10
	featuredPostLimit = 20
)

// FeaturedEstablishment is an establishment plus the image list of its most
// recent contribution inside the window. Establishments with no recent
// contribution carry no images.
type FeaturedEstablishment struct {
	*types.Establishment
	Images []string `json:"images,omitempty"`
}

// FeaturedService selects recently-active establishments for the discover
// surface: city-scoped, optionally tag-filtered, 30-day window.
type FeaturedService interface {
	Featured(ctx context.Context, city, tag string) ([]FeaturedEstablishment, error)
}

type featuredService struct {
	db       *gorm.DB
	log      *logger.Logger
	estRepo  repos.EstablishmentRepo
	postRepo repos.PostRepo
}

func NewFeaturedService(db *gorm.DB, log *logger.Logger, estRepo repos.EstablishmentRepo, postRepo repos.PostRepo) FeaturedService {
	return &featuredService{
		db:       db,
		log:      log.With("service", "FeaturedService"),
		estRepo:  estRepo,
		postRepo: postRepo,
	}
}

func (fs *featuredService) Featured(ctx context.Context, city, tag string) ([]FeaturedEstablishment, error) {
	windowStart := time.Now().UTC().Add(-featuredWindow)

	results := []FeaturedEstablishment{}
	// Both reads run in one transaction so the post lookup sees the same
	// establishment set the window query selected.
	err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ests, err := fs.estRepo.UpdatedSince(ctx, tx, city, windowStart)
		if err != nil {
			return fmt.Errorf("featured window query: %w", err)
		}
		if tag != "" {
			ests = filterByTag(ests, tag)
		}
		if len(ests) > featuredLimit {
			ests = ests[:featuredLimit]
		}
		if len(ests) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, 0, len(ests))
		for _, e := range ests {
			ids = append(ids, e.ID)
		}
		posts, err := fs.postRepo.RecentFinalizedByEstablishments(ctx, tx, ids, featuredPostLimit)
		if err != nil {
			return fmt.Errorf("featured post query: %w", err)
		}

		results = buildFeatured(ests, posts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// buildFeatured pairs each establishment with the image list of its most
// recent contribution and sorts its tags alphabetically. Posts arrive
// newest-first, so the first post seen per establishment is its most recent
// one; ties on created_at resolve by the query's id order, which is
// deterministic.
func buildFeatured(ests []*types.Establishment, posts []*types.Post) []FeaturedEstablishment {
	imagesByEst := make(map[uuid.UUID][]string, len(ests))
	for _, p := range posts {
		if _, ok := imagesByEst[p.EstablishmentID]; ok {
			continue
		}
		imagesByEst[p.EstablishmentID] = p.ImageURLs
	}

	out := make([]FeaturedEstablishment, 0, len(ests))
	for _, e := range ests {
		sortedTags := make([]string, len(e.Tags))
		copy(sortedTags, e.Tags)
		sort.Strings(sortedTags)
		e.Tags = sortedTags

		out = append(out, FeaturedEstablishment{
			Establishment: e,
			Images:        imagesByEst[e.ID],
		})
	}
	return out
}

func filterByTag(ests []*types.Establishment, tag string) []*types.Establishment {
	out := make([]*types.Establishment, 0, len(ests))
	for _, e := range ests {
		for _, t := range e.Tags {
			if t == tag {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
