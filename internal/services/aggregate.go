package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/realtime"
	"github.com/forkful/forkful-backend/internal/realtime/bus"
	"github.com/forkful/forkful-backend/internal/repos"
	"github.com/forkful/forkful-backend/internal/types"
)

// FinalizeInput carries the review payload that turns a draft post into a
// finalized contribution.
type FinalizeInput struct {
	Review  string
	Ratings types.Ratings
	Tags    []string
}

// AggregateService finalizes a contribution and updates the establishment's
// denormalized counters in one atomic transaction. The pair (post
// finalized, counters updated) is all-or-nothing: no reader ever sees one
// without the other.
type AggregateService interface {
	FinalizeContribution(ctx context.Context, establishmentID, postID uuid.UUID, input FinalizeInput) (*types.Establishment, error)
}

type aggregateService struct {
	db        *gorm.DB
	log       *logger.Logger
	estRepo   repos.EstablishmentRepo
	postRepo  repos.PostRepo
	statsRepo repos.UserStatsRepo
	bus       bus.Bus

	maxAttempts int
	backoffBase time.Duration
}

func NewAggregateService(db *gorm.DB, log *logger.Logger, estRepo repos.EstablishmentRepo, postRepo repos.PostRepo, statsRepo repos.UserStatsRepo, eventBus bus.Bus) AggregateService {
	return &aggregateService{
		db:          db,
		log:         log.With("service", "AggregateService"),
		estRepo:     estRepo,
		postRepo:    postRepo,
		statsRepo:   statsRepo,
		bus:         eventBus,
		maxAttempts: 3,
		backoffBase: 50 * time.Millisecond,
	}
}

func (as *aggregateService) FinalizeContribution(ctx context.Context, establishmentID, postID uuid.UUID, input FinalizeInput) (*types.Establishment, error) {
	if input.Ratings.Overall < 1 || input.Ratings.Overall > 10 {
		return nil, fmt.Errorf("overall rating %.1f out of range [1,10]", input.Ratings.Overall)
	}

	var updated *types.Establishment
	for attempt := 0; attempt < as.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := as.backoffBase << (attempt - 1)
			as.log.Debug("retrying finalize after conflict", "postID", postID, "attempt", attempt, "backoff", backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := as.inTransaction(ctx, func(tx *gorm.DB) error {
			est, err := as.estRepo.GetByID(ctx, tx, establishmentID)
			if err != nil {
				return err
			}
			post, err := as.postRepo.GetByID(ctx, tx, postID)
			if err != nil {
				return err
			}
			if post.EstablishmentID != establishmentID {
				return fmt.Errorf("post %s does not reference establishment %s", postID, establishmentID)
			}
			if post.Finalized {
				// Retried submit of an already-finalized post. Counting it
				// again would corrupt the average, so this is a no-op.
				as.log.Warn("post already finalized, skipping aggregate update", "postID", postID)
				updated = est
				return nil
			}

			now := time.Now().UTC()
			ok, err := as.postRepo.Finalize(ctx, tx, postID, input.Review, input.Ratings, input.Tags, now)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.ErrTransactionConflict
			}

			newPostCount := est.PostCount + 1
			newAverage := round1(clamp((est.AverageRating*float64(est.PostCount)+input.Ratings.Overall)/float64(newPostCount), 1, 10))
			mergedTags := unionTags(est.Tags, input.Tags)

			ok, err = as.estRepo.UpdateAggregates(ctx, tx, establishmentID, est.PostCount, newAverage, newPostCount, mergedTags, now)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.ErrTransactionConflict
			}

			if err := as.statsRepo.EnsureRow(ctx, tx, post.UserID); err != nil {
				return err
			}
			if err := as.statsRepo.IncrementPostCount(ctx, tx, post.UserID, 1); err != nil {
				return err
			}

			est.AverageRating = newAverage
			est.PostCount = newPostCount
			est.Tags = mergedTags
			est.UpdatedAt = now
			updated = est
			return nil
		})
		if err == nil {
			as.publishAggregates(ctx, updated)
			return updated, nil
		}
		if errors.Is(err, apperr.ErrTransactionConflict) {
			continue
		}
		return nil, err
	}

	as.log.Error("finalize exhausted retries", "postID", postID, "attempts", as.maxAttempts)
	return nil, fmt.Errorf("finalize contribution %s: %w", postID, apperr.ErrUpstreamUnavailable)
}

// inTransaction runs fn inside a DB transaction. A nil db runs fn directly
// with a nil tx, which the repos treat as their own handle.
func (as *aggregateService) inTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if as.db == nil {
		return fn(nil)
	}
	return as.db.WithContext(ctx).Transaction(fn)
}

func (as *aggregateService) publishAggregates(ctx context.Context, est *types.Establishment) {
	if as.bus == nil || est == nil {
		return
	}
	msg := realtime.Message{
		Channel: realtime.EstablishmentChannel(est.ID.String()),
		Event:   realtime.EventEstablishmentUpdated,
		Data: map[string]any{
			"establishment_id": est.ID,
			"average_rating":   est.AverageRating,
			"post_count":       est.PostCount,
		},
	}
	if err := as.bus.Publish(ctx, msg); err != nil {
		as.log.Warn("failed to publish aggregate update", "establishmentID", est.ID, "error", err)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// unionTags merges new tags into existing ones preserving first-seen order.
func unionTags(existing []string, incoming []string) []string {
	seen := make(map[string]bool, len(existing)+len(incoming))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, t := range existing {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		merged = append(merged, t)
	}
	for _, t := range incoming {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		merged = append(merged, t)
	}
	return merged
}
