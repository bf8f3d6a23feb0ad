package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/realtime"
)

type fakeLikeService struct {
	addErr    error
	removeErr error
	addCalls  int
	remCalls  int
}

func (f *fakeLikeService) AddLike(ctx context.Context, userID, postID uuid.UUID) (int, error) {
	f.addCalls++
	return 0, f.addErr
}

func (f *fakeLikeService) RemoveLike(ctx context.Context, userID, postID uuid.UUID) (int, error) {
	f.remCalls++
	return 0, f.removeErr
}

func (f *fakeLikeService) HasLiked(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	return false, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func TestLikeToggleFlipsOptimistically(t *testing.T) {
	likes := &fakeLikeService{}
	toggle := NewLikeToggle(testLogger(t), likes, uuid.New(), uuid.New(), LikeStateUnliked, 4)

	if err := toggle.Toggle(context.Background()); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggle.Liked() {
		t.Fatalf("expected liked after toggle")
	}
	if likes.addCalls != 1 {
		t.Fatalf("addCalls: want=1 got=%d", likes.addCalls)
	}
	// The displayed count only follows the subscription feed.
	if got := toggle.Count(); got != 4 {
		t.Fatalf("count: want=4 got=%d", got)
	}

	if err := toggle.Toggle(context.Background()); err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if toggle.Liked() {
		t.Fatalf("expected unliked after second toggle")
	}
	if likes.remCalls != 1 {
		t.Fatalf("remCalls: want=1 got=%d", likes.remCalls)
	}
}

func TestLikeToggleRollsBackOnFailure(t *testing.T) {
	likes := &fakeLikeService{addErr: errors.New("write failed")}
	toggle := NewLikeToggle(testLogger(t), likes, uuid.New(), uuid.New(), LikeStateUnliked, 7)

	if err := toggle.Toggle(context.Background()); err == nil {
		t.Fatalf("expected error from failed write")
	}
	if toggle.Liked() {
		t.Fatalf("expected rollback to unliked")
	}
	if got := toggle.Count(); got != 7 {
		t.Fatalf("count must be untouched: want=7 got=%d", got)
	}
}

func TestLikeToggleRequiresSession(t *testing.T) {
	likes := &fakeLikeService{}
	toggle := NewLikeToggle(testLogger(t), likes, uuid.Nil, uuid.New(), LikeStateUnliked, 0)

	err := toggle.Toggle(context.Background())
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("want ErrUnauthenticated, got=%v", err)
	}
	if toggle.Liked() {
		t.Fatalf("state must not flip without a session")
	}
	if likes.addCalls != 0 || likes.remCalls != 0 {
		t.Fatalf("no writes expected without a session")
	}
}

func TestLikeToggleHandleMessage(t *testing.T) {
	postID := uuid.New()
	toggle := NewLikeToggle(testLogger(t), &fakeLikeService{}, uuid.New(), postID, LikeStateLiked, 1)

	// JSON round-trips numbers as float64.
	toggle.HandleMessage(realtime.Message{
		Channel: realtime.PostChannel(postID.String()),
		Event:   realtime.EventPostLikeCount,
		Data:    map[string]any{"like_count": float64(9)},
	})
	if got := toggle.Count(); got != 9 {
		t.Fatalf("count: want=9 got=%d", got)
	}

	// Messages for other posts or other events are ignored.
	toggle.HandleMessage(realtime.Message{
		Channel: realtime.PostChannel(uuid.NewString()),
		Event:   realtime.EventPostLikeCount,
		Data:    map[string]any{"like_count": 99},
	})
	toggle.HandleMessage(realtime.Message{
		Channel: realtime.PostChannel(postID.String()),
		Event:   realtime.EventEstablishmentUpdated,
		Data:    map[string]any{"like_count": 99},
	})
	if got := toggle.Count(); got != 9 {
		t.Fatalf("count after ignored messages: want=9 got=%d", got)
	}
}
