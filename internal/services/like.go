package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/realtime"
	"github.com/forkful/forkful-backend/internal/realtime/bus"
	"github.com/forkful/forkful-backend/internal/repos"
	"github.com/forkful/forkful-backend/internal/types"
)

// LikeService maintains like existence rows and the derived like_count.
// Both operations are idempotent: existence is queried at call time, never
// assumed, so a retried request cannot double-count.
type LikeService interface {
	AddLike(ctx context.Context, userID, postID uuid.UUID) (int, error)
	RemoveLike(ctx context.Context, userID, postID uuid.UUID) (int, error)
	HasLiked(ctx context.Context, userID, postID uuid.UUID) (bool, error)
}

type likeService struct {
	db       *gorm.DB
	log      *logger.Logger
	likeRepo repos.LikeRepo
	postRepo repos.PostRepo
	bus      bus.Bus
}

func NewLikeService(db *gorm.DB, log *logger.Logger, likeRepo repos.LikeRepo, postRepo repos.PostRepo, eventBus bus.Bus) LikeService {
	return &likeService{
		db:       db,
		log:      log.With("service", "LikeService"),
		likeRepo: likeRepo,
		postRepo: postRepo,
		bus:      eventBus,
	}
}

func (ls *likeService) AddLike(ctx context.Context, userID, postID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, apperr.ErrUnauthenticated
	}

	post, err := ls.postRepo.GetByID(ctx, nil, postID)
	if err != nil {
		return 0, err
	}

	created, err := ls.likeRepo.Create(ctx, nil, &types.Like{UserID: userID, PostID: postID})
	if err != nil {
		return 0, err
	}
	if !created {
		// Already liked; the stored count is authoritative.
		return post.LikeCount, nil
	}

	count, err := ls.postRepo.AdjustLikeCount(ctx, nil, postID, 1)
	if err != nil {
		return 0, err
	}
	ls.publishCount(ctx, postID, count)
	return count, nil
}

func (ls *likeService) RemoveLike(ctx context.Context, userID, postID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, apperr.ErrUnauthenticated
	}

	post, err := ls.postRepo.GetByID(ctx, nil, postID)
	if err != nil {
		return 0, err
	}

	deleted, err := ls.likeRepo.Delete(ctx, nil, userID, postID)
	if err != nil {
		return 0, err
	}
	if !deleted {
		return post.LikeCount, nil
	}

	count, err := ls.postRepo.AdjustLikeCount(ctx, nil, postID, -1)
	if err != nil {
		return 0, err
	}
	ls.publishCount(ctx, postID, count)
	return count, nil
}

func (ls *likeService) HasLiked(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	return ls.likeRepo.Exists(ctx, nil, userID, postID)
}

func (ls *likeService) publishCount(ctx context.Context, postID uuid.UUID, count int) {
	if ls.bus == nil {
		return
	}
	msg := realtime.Message{
		Channel: realtime.PostChannel(postID.String()),
		Event:   realtime.EventPostLikeCount,
		Data: map[string]any{
			"post_id":    postID,
			"like_count": count,
		},
	}
	if err := ls.bus.Publish(ctx, msg); err != nil {
		ls.log.Warn("failed to publish like count", "postID", postID, "error", err)
	}
}

// LikeState is the per-(user,post) toggle state.
type LikeState int

const (
	LikeStateUnknown LikeState = iota
	LikeStateLiked
	LikeStateUnliked
)

// LikeToggle reconciles an optimistic liked flag against the live like
// count. The flag flips before the write completes and rolls back on
// failure; the displayed count only ever follows the subscription feed and
// is never touched optimistically.
type LikeToggle struct {
	mu sync.Mutex

	log    *logger.Logger
	likes  LikeService
	userID uuid.UUID
	postID uuid.UUID

	state LikeState
	count int
}

func NewLikeToggle(log *logger.Logger, likes LikeService, userID, postID uuid.UUID, initial LikeState, initialCount int) *LikeToggle {
	return &LikeToggle{
		log:    log.With("component", "LikeToggle", "postID", postID),
		likes:  likes,
		userID: userID,
		postID: postID,
		state:  initial,
		count:  initialCount,
	}
}

// Toggle flips the flag optimistically, then performs the write. The
// session check happens before any visible state changes.
func (lt *LikeToggle) Toggle(ctx context.Context) error {
	if lt.userID == uuid.Nil {
		return apperr.ErrUnauthenticated
	}

	lt.mu.Lock()
	prev := lt.state
	next := LikeStateLiked
	if prev == LikeStateLiked {
		next = LikeStateUnliked
	}
	lt.state = next
	lt.mu.Unlock()

	var err error
	if next == LikeStateLiked {
		_, err = lt.likes.AddLike(ctx, lt.userID, lt.postID)
	} else {
		_, err = lt.likes.RemoveLike(ctx, lt.userID, lt.postID)
	}
	if err != nil {
		lt.mu.Lock()
		lt.state = prev
		lt.mu.Unlock()
		lt.log.Warn("like toggle failed, rolled back", "error", err)
		return err
	}
	return nil
}

// HandleMessage feeds live count updates into the toggle. Messages for
// other channels are ignored.
func (lt *LikeToggle) HandleMessage(msg realtime.Message) {
	if msg.Channel != realtime.PostChannel(lt.postID.String()) || msg.Event != realtime.EventPostLikeCount {
		return
	}
	data, ok := msg.Data.(map[string]any)
	if !ok {
		return
	}
	switch v := data["like_count"].(type) {
	case int:
		lt.setCount(v)
	case float64:
		lt.setCount(int(v))
	}
}

func (lt *LikeToggle) setCount(count int) {
	lt.mu.Lock()
	lt.count = count
	lt.mu.Unlock()
}

func (lt *LikeToggle) Liked() bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return lt.state == LikeStateLiked
}

func (lt *LikeToggle) Count() int {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return lt.count
}
