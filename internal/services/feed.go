package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/repos"
	"github.com/forkful/forkful-backend/internal/types"
)

const DefaultFeedPageSize = 15

// FeedEntry is one enriched feed row. Enrichment fields are best-effort:
// a failed lookup leaves them at their zero value.
type FeedEntry struct {
	Post                 *types.Post `json:"post"`
	AuthorProfilePicture string      `json:"author_profile_picture,omitempty"`
	EstablishmentRating  float64     `json:"establishment_rating,omitempty"`
}

// FeedPage carries one page plus the opaque cursor for the next one.
// NextCursor is empty when the feed is exhausted.
type FeedPage struct {
	Entries    []FeedEntry `json:"entries"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

type FeedService interface {
	AssembleFeed(ctx context.Context, userID uuid.UUID, cursor string, pageSize int) (*FeedPage, error)
	PostsByUser(ctx context.Context, userID uuid.UUID) ([]FeedEntry, error)
	TopPicksByUser(ctx context.Context, userID uuid.UUID) ([]FeedEntry, error)
}

type feedService struct {
	db              *gorm.DB
	log             *logger.Logger
	postRepo        repos.PostRepo
	followRepo      repos.FollowRepo
	userRepo        repos.UserRepo
	estRepo         repos.EstablishmentRepo
	defaultPageSize int
}

func NewFeedService(db *gorm.DB, log *logger.Logger, postRepo repos.PostRepo, followRepo repos.FollowRepo, userRepo repos.UserRepo, estRepo repos.EstablishmentRepo, defaultPageSize int) FeedService {
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultFeedPageSize
	}
	return &feedService{
		db:              db,
		log:             log.With("service", "FeedService"),
		postRepo:        postRepo,
		followRepo:      followRepo,
		userRepo:        userRepo,
		estRepo:         estRepo,
		defaultPageSize: defaultPageSize,
	}
}

func (fs *feedService) AssembleFeed(ctx context.Context, userID uuid.UUID, cursor string, pageSize int) (*FeedPage, error) {
	if pageSize <= 0 {
		pageSize = fs.defaultPageSize
	}

	followingIDs, err := fs.followRepo.FollowingIDs(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve following set: %w", err)
	}
	// Follows nobody: a valid empty feed, not an error, and no further
	// queries are issued.
	if len(followingIDs) == 0 {
		return &FeedPage{Entries: []FeedEntry{}}, nil
	}

	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	posts, err := fs.postRepo.FinalizedByUsers(ctx, nil, followingIDs, after, pageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch feed page: %w", err)
	}

	var nextCursor string
	if len(posts) == pageSize {
		last := posts[len(posts)-1]
		nextCursor = encodeCursor(&repos.PageKey{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	entries := fs.enrich(ctx, cleanPosts(posts))
	return &FeedPage{Entries: entries, NextCursor: nextCursor}, nil
}

func (fs *feedService) PostsByUser(ctx context.Context, userID uuid.UUID) ([]FeedEntry, error) {
	posts, err := fs.postRepo.FinalizedByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch posts by user: %w", err)
	}
	return fs.enrich(ctx, cleanPosts(posts)), nil
}

func (fs *feedService) TopPicksByUser(ctx context.Context, userID uuid.UUID) ([]FeedEntry, error) {
	posts, err := fs.postRepo.FinalizedByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch posts by user: %w", err)
	}
	clean := cleanPosts(posts)
	sort.SliceStable(clean, func(i, j int) bool {
		return clean[i].Ratings.Data().Overall > clean[j].Ratings.Data().Overall
	})
	if len(clean) > 5 {
		clean = clean[:5]
	}
	return fs.enrich(ctx, clean), nil
}

// cleanPosts drops image-less drafts and duplicate entries. A feed holds at
// most one entry per establishment and one per leading image URL; input
// order is recency order, so earlier entries win ties.
func cleanPosts(posts []*types.Post) []*types.Post {
	seenEstablishment := make(map[uuid.UUID]bool, len(posts))
	seenLeadImage := make(map[string]bool, len(posts))

	out := make([]*types.Post, 0, len(posts))
	for _, p := range posts {
		if len(p.ImageURLs) == 0 {
			continue
		}
		lead := p.ImageURLs[0]
		if seenEstablishment[p.EstablishmentID] || seenLeadImage[lead] {
			continue
		}
		seenEstablishment[p.EstablishmentID] = true
		seenLeadImage[lead] = true
		out = append(out, p)
	}
	return out
}

// enrich resolves author avatars and current establishment ratings in
// parallel. A failed lookup degrades the page, it never fails it.
func (fs *feedService) enrich(ctx context.Context, posts []*types.Post) []FeedEntry {
	if len(posts) == 0 {
		return []FeedEntry{}
	}

	userIDs := make([]uuid.UUID, 0, len(posts))
	estIDs := make([]uuid.UUID, 0, len(posts))
	seenUser := make(map[uuid.UUID]bool)
	seenEst := make(map[uuid.UUID]bool)
	for _, p := range posts {
		if !seenUser[p.UserID] {
			seenUser[p.UserID] = true
			userIDs = append(userIDs, p.UserID)
		}
		if !seenEst[p.EstablishmentID] {
			seenEst[p.EstablishmentID] = true
			estIDs = append(estIDs, p.EstablishmentID)
		}
	}

	avatarByUser := make(map[uuid.UUID]string, len(userIDs))
	ratingByEst := make(map[uuid.UUID]float64, len(estIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := fs.userRepo.GetByIDs(gctx, nil, userIDs)
		if err != nil {
			fs.log.Warn("avatar enrichment failed, continuing without", "error", &apperr.EnrichmentError{Entity: "user", ID: "avatars", Err: err})
			return nil
		}
		for _, u := range users {
			avatarByUser[u.ID] = u.AvatarURL
		}
		return nil
	})
	g.Go(func() error {
		ests, err := fs.estRepo.GetByIDs(gctx, nil, estIDs)
		if err != nil {
			fs.log.Warn("rating enrichment failed, continuing without", "error", &apperr.EnrichmentError{Entity: "establishment", ID: "ratings", Err: err})
			return nil
		}
		for _, e := range ests {
			ratingByEst[e.ID] = e.AverageRating
		}
		return nil
	})
	_ = g.Wait()

	entries := make([]FeedEntry, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, FeedEntry{
			Post:                 p,
			AuthorProfilePicture: avatarByUser[p.UserID],
			EstablishmentRating:  ratingByEst[p.EstablishmentID],
		})
	}
	return entries
}

type cursorPayload struct {
	CreatedAt time.Time `json:"c"`
	ID        uuid.UUID `json:"i"`
}

func encodeCursor(key *repos.PageKey) string {
	if key == nil {
		return ""
	}
	raw, err := json.Marshal(cursorPayload{CreatedAt: key.CreatedAt, ID: key.ID})
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(cursor string) (*repos.PageKey, error) {
	if cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	var payload cursorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	return &repos.PageKey{CreatedAt: payload.CreatedAt, ID: payload.ID}, nil
}
