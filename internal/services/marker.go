package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/repos"
	"github.com/forkful/forkful-backend/internal/types"
)

// MarkerSource is the tagged union of records that can become a map
// marker. Each variant has exactly one mapping function; no field-presence
// sniffing happens downstream.
type MarkerSource interface {
	toMarker() (types.Marker, bool)
}

type SaveSource struct {
	Save *types.Save
}

func (s SaveSource) toMarker() (types.Marker, bool) {
	est := s.Save.Establishment
	if est == nil || !est.HasGeocode() {
		return types.Marker{}, false
	}
	return types.Marker{
		ID:                est.ID,
		EstablishmentName: est.Name,
		Latitude:          *est.Latitude,
		Longitude:         *est.Longitude,
		Tags:              est.Tags,
		AverageRating:     est.AverageRating,
		Type:              types.MarkerTypeSave,
	}, true
}

type FollowingPostSource struct {
	Post            *types.Post
	AuthorAvatarURL string
}

func (s FollowingPostSource) toMarker() (types.Marker, bool) {
	p := s.Post
	if p.Latitude == nil || p.Longitude == nil || p.EstablishmentName == "" {
		return types.Marker{}, false
	}
	return types.Marker{
		ID:                 p.EstablishmentID,
		EstablishmentName:  p.EstablishmentName,
		Latitude:           *p.Latitude,
		Longitude:          *p.Longitude,
		Tags:               p.Tags,
		AverageRating:      p.RatingAtTime,
		Type:               types.MarkerTypeFollowing,
		UserProfilePicture: s.AuthorAvatarURL,
	}, true
}

type OwnPostSource struct {
	Post *types.Post
}

func (s OwnPostSource) toMarker() (types.Marker, bool) {
	p := s.Post
	if p.Latitude == nil || p.Longitude == nil || p.EstablishmentName == "" {
		return types.Marker{}, false
	}
	return types.Marker{
		ID:                p.EstablishmentID,
		EstablishmentName: p.EstablishmentName,
		Latitude:          *p.Latitude,
		Longitude:         *p.Longitude,
		Tags:              p.Tags,
		AverageRating:     p.RatingAtTime,
		Type:              types.MarkerTypePost,
	}, true
}

// EstablishmentCard is the gallery fetched when a marker is selected. It is
// independent of marker computation; its absence never blocks rendering.
type EstablishmentCard struct {
	Establishment *types.Establishment `json:"establishment"`
	Gallery       []FeedEntry          `json:"gallery"`
}

type MarkerService interface {
	MarkersForUser(ctx context.Context, userID uuid.UUID) ([]types.Marker, error)
	EstablishmentCard(ctx context.Context, establishmentID uuid.UUID) (*EstablishmentCard, error)
}

type markerService struct {
	db         *gorm.DB
	log        *logger.Logger
	saveRepo   repos.SaveRepo
	postRepo   repos.PostRepo
	followRepo repos.FollowRepo
	userRepo   repos.UserRepo
	estRepo    repos.EstablishmentRepo
}

func NewMarkerService(db *gorm.DB, log *logger.Logger, saveRepo repos.SaveRepo, postRepo repos.PostRepo, followRepo repos.FollowRepo, userRepo repos.UserRepo, estRepo repos.EstablishmentRepo) MarkerService {
	return &markerService{
		db:         db,
		log:        log.With("service", "MarkerService"),
		saveRepo:   saveRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
		userRepo:   userRepo,
		estRepo:    estRepo,
	}
}

func (ms *markerService) MarkersForUser(ctx context.Context, userID uuid.UUID) ([]types.Marker, error) {
	var (
		saves          []*types.Save
		ownPosts       []*types.Post
		followingPosts []*types.Post
	)

	// The three source collections are independent; fetch them in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		saves, err = ms.saveRepo.ByUser(gctx, nil, userID)
		return err
	})
	g.Go(func() error {
		var err error
		ownPosts, err = ms.postRepo.FinalizedByUser(gctx, nil, userID)
		return err
	})
	g.Go(func() error {
		followingIDs, err := ms.followRepo.FollowingIDs(gctx, nil, userID)
		if err != nil {
			return err
		}
		if len(followingIDs) == 0 {
			return nil
		}
		followingPosts, err = ms.postRepo.FinalizedByUsers(gctx, nil, followingIDs, nil, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch marker sources: %w", err)
	}

	avatarByUser := ms.resolveAvatars(ctx, followingPosts)

	following := make([]FollowingPostSource, 0, len(followingPosts))
	for _, p := range followingPosts {
		following = append(following, FollowingPostSource{Post: p, AuthorAvatarURL: avatarByUser[p.UserID]})
	}
	return MergeMarkers(saves, following, ownPosts), nil
}

// MergeMarkers combines the three source collections into one deduplicated
// marker list. For an establishment present in several sources exactly one
// marker is produced, carrying the attributes of the highest-priority
// source: save beats following beats post.
func MergeMarkers(saves []*types.Save, following []FollowingPostSource, ownPosts []*types.Post) []types.Marker {
	taken := make(map[uuid.UUID]bool)
	markers := make([]types.Marker, 0, len(saves)+len(following)+len(ownPosts))

	for _, s := range saves {
		m, ok := SaveSource{Save: s}.toMarker()
		if !ok || taken[m.ID] {
			continue
		}
		taken[m.ID] = true
		markers = append(markers, m)
	}
	for _, f := range following {
		m, ok := f.toMarker()
		if !ok || taken[m.ID] {
			continue
		}
		taken[m.ID] = true
		markers = append(markers, m)
	}
	for _, p := range ownPosts {
		m, ok := OwnPostSource{Post: p}.toMarker()
		if !ok || taken[m.ID] {
			continue
		}
		taken[m.ID] = true
		markers = append(markers, m)
	}

	// Identity exclusivity is already guaranteed above, so this sort only
	// orders groups by priority without re-deduplicating.
	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].Type.Weight() > markers[j].Type.Weight()
	})
	return markers
}

func (ms *markerService) EstablishmentCard(ctx context.Context, establishmentID uuid.UUID) (*EstablishmentCard, error) {
	est, err := ms.estRepo.GetByID(ctx, nil, establishmentID)
	if err != nil {
		return nil, err
	}

	posts, err := ms.postRepo.RecentFinalizedByEstablishments(ctx, nil, []uuid.UUID{establishmentID}, 5)
	if err != nil {
		return nil, fmt.Errorf("fetch card gallery: %w", err)
	}

	avatarByUser := ms.resolveAvatars(ctx, posts)
	gallery := make([]FeedEntry, 0, len(posts))
	for _, p := range posts {
		gallery = append(gallery, FeedEntry{
			Post:                 p,
			AuthorProfilePicture: avatarByUser[p.UserID],
			EstablishmentRating:  est.AverageRating,
		})
	}
	return &EstablishmentCard{Establishment: est, Gallery: gallery}, nil
}

// resolveAvatars is best-effort: a failed lookup leaves avatars blank.
func (ms *markerService) resolveAvatars(ctx context.Context, posts []*types.Post) map[uuid.UUID]string {
	avatarByUser := make(map[uuid.UUID]string)
	if len(posts) == 0 {
		return avatarByUser
	}

	userIDs := make([]uuid.UUID, 0, len(posts))
	seen := make(map[uuid.UUID]bool)
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			userIDs = append(userIDs, p.UserID)
		}
	}

	users, err := ms.userRepo.GetByIDs(ctx, nil, userIDs)
	if err != nil {
		ms.log.Warn("avatar enrichment failed, continuing without", "error", &apperr.EnrichmentError{Entity: "user", ID: "avatars", Err: err})
		return avatarByUser
	}
	for _, u := range users {
		avatarByUser[u.ID] = u.AvatarURL
	}
	return avatarByUser
}
