package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/pkg/apperr"
	"github.com/forkful/forkful-backend/internal/repos"
	"github.com/forkful/forkful-backend/internal/types"
)

func TestRunningAverageMath(t *testing.T) {
	cases := []struct {
		name      string
		prevAvg   float64
		prevCount int
		overall   float64
		want      float64
	}{
		{name: "two sevens plus a ten", prevAvg: 7.0, prevCount: 2, overall: 10, want: 8.0},
		{name: "first contribution", prevAvg: 0, prevCount: 0, overall: 6.5, want: 6.5},
		{name: "rounds to one decimal", prevAvg: 7.0, prevCount: 1, overall: 8.0, want: 7.5},
		{name: "clamped to ceiling", prevAvg: 10, prevCount: 3, overall: 10, want: 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			newCount := tc.prevCount + 1
			got := round1(clamp((tc.prevAvg*float64(tc.prevCount)+tc.overall)/float64(newCount), 1, 10))
			if got != tc.want {
				t.Fatalf("average: want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestRound1(t *testing.T) {
	if got := round1(7.4499); got != 7.4 {
		t.Fatalf("want=7.4 got=%v", got)
	}
	if got := round1(7.45); got != 7.5 {
		t.Fatalf("want=7.5 got=%v", got)
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(0.2, 1, 10); got != 1 {
		t.Fatalf("floor: want=1 got=%v", got)
	}
	if got := clamp(11, 1, 10); got != 10 {
		t.Fatalf("ceiling: want=10 got=%v", got)
	}
	if got := clamp(5.5, 1, 10); got != 5.5 {
		t.Fatalf("inside range: want=5.5 got=%v", got)
	}
}

func TestUnionTags(t *testing.T) {
	got := unionTags([]string{"Italian", "Pasta"}, []string{"Pasta", "", "Vegan", "Italian"})
	want := []string{"Italian", "Pasta", "Vegan"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tags: want=%v got=%v", want, got)
	}
}

func TestUnionTagsEmptyInputs(t *testing.T) {
	if got := unionTags(nil, nil); len(got) != 0 {
		t.Fatalf("want empty, got=%v", got)
	}
	got := unionTags(nil, []string{"Sushi"})
	if len(got) != 1 || got[0] != "Sushi" {
		t.Fatalf("want=[Sushi] got=%v", got)
	}
}

type fakeFinalizeEstRepo struct {
	est         *types.Establishment
	conflicts   int
	updateCalls int
}

func (f *fakeFinalizeEstRepo) Create(ctx context.Context, tx *gorm.DB, est *types.Establishment) (*types.Establishment, error) {
	return est, nil
}

func (f *fakeFinalizeEstRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Establishment, error) {
	if f.est == nil || f.est.ID != id {
		return nil, apperr.NotFoundf("establishment %s", id)
	}
	// Fresh copy per attempt, like a re-read inside a new transaction.
	copied := *f.est
	return &copied, nil
}

func (f *fakeFinalizeEstRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Establishment, error) {
	return nil, nil
}

func (f *fakeFinalizeEstRepo) GetByPlaceID(ctx context.Context, tx *gorm.DB, placeID string) (*types.Establishment, error) {
	return nil, apperr.NotFoundf("establishment for place %s", placeID)
}

func (f *fakeFinalizeEstRepo) UpdateAggregates(ctx context.Context, tx *gorm.DB, id uuid.UUID, prevPostCount int, newAverage float64, newPostCount int, tags []string, updatedAt time.Time) (bool, error) {
	f.updateCalls++
	if f.updateCalls <= f.conflicts {
		return false, nil
	}
	f.est.AverageRating = newAverage
	f.est.PostCount = newPostCount
	f.est.Tags = tags
	return true, nil
}

func (f *fakeFinalizeEstRepo) UpdatedSince(ctx context.Context, tx *gorm.DB, city string, since time.Time) ([]*types.Establishment, error) {
	return nil, nil
}

type fakeFinalizePostRepo struct {
	post          *types.Post
	finalizeCalls int
}

func (f *fakeFinalizePostRepo) Create(ctx context.Context, tx *gorm.DB, post *types.Post) (*types.Post, error) {
	return post, nil
}

func (f *fakeFinalizePostRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Post, error) {
	if f.post == nil || f.post.ID != id {
		return nil, apperr.NotFoundf("post %s", id)
	}
	return f.post, nil
}

func (f *fakeFinalizePostRepo) Update(ctx context.Context, tx *gorm.DB, post *types.Post) error {
	return nil
}

func (f *fakeFinalizePostRepo) FinalizedByUsers(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID, after *repos.PageKey, limit int) ([]*types.Post, error) {
	return nil, nil
}

func (f *fakeFinalizePostRepo) FinalizedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Post, error) {
	return nil, nil
}

func (f *fakeFinalizePostRepo) RecentFinalizedByEstablishments(ctx context.Context, tx *gorm.DB, establishmentIDs []uuid.UUID, limit int) ([]*types.Post, error) {
	return nil, nil
}

func (f *fakeFinalizePostRepo) Finalize(ctx context.Context, tx *gorm.DB, id uuid.UUID, review string, ratings types.Ratings, tags []string, now time.Time) (bool, error) {
	f.finalizeCalls++
	return !f.post.Finalized, nil
}

func (f *fakeFinalizePostRepo) AdjustLikeCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) (int, error) {
	return 0, nil
}

type recordingStatsRepo struct {
	ensureCalls   int
	postIncrement int
}

func (r *recordingStatsRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error) {
	return &types.UserStats{UserID: userID}, nil
}

func (r *recordingStatsRepo) EnsureRow(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	r.ensureCalls++
	return nil
}

func (r *recordingStatsRepo) IncrementPostCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
	r.postIncrement += delta
	return nil
}

func (r *recordingStatsRepo) IncrementFollowerCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
	return nil
}

func (r *recordingStatsRepo) IncrementFollowingCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
	return nil
}

func finalizeFixture(t *testing.T, estRepo *fakeFinalizeEstRepo, postRepo *fakeFinalizePostRepo, statsRepo *recordingStatsRepo) *aggregateService {
	t.Helper()
	return &aggregateService{
		log:         testLogger(t),
		estRepo:     estRepo,
		postRepo:    postRepo,
		statsRepo:   statsRepo,
		maxAttempts: 3,
		backoffBase: time.Millisecond,
	}
}

func draftPost(estID uuid.UUID) *types.Post {
	return &types.Post{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		EstablishmentID: estID,
	}
}

func TestFinalizeContributionUpdatesAggregates(t *testing.T) {
	est := &types.Establishment{
		ID:            uuid.New(),
		AverageRating: 7.0,
		PostCount:     2,
		Tags:          datatypes.JSONSlice[string]{"Italian"},
	}
	estRepo := &fakeFinalizeEstRepo{est: est}
	postRepo := &fakeFinalizePostRepo{post: draftPost(est.ID)}
	statsRepo := &recordingStatsRepo{}
	svc := finalizeFixture(t, estRepo, postRepo, statsRepo)

	input := FinalizeInput{
		Review:  "great pasta",
		Ratings: types.Ratings{Overall: 10},
		Tags:    []string{"Vegan"},
	}
	updated, err := svc.FinalizeContribution(context.Background(), est.ID, postRepo.post.ID, input)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if updated.AverageRating != 8.0 {
		t.Fatalf("average: want=8.0 got=%v", updated.AverageRating)
	}
	if updated.PostCount != 3 {
		t.Fatalf("post count: want=3 got=%d", updated.PostCount)
	}
	wantTags := []string{"Italian", "Vegan"}
	if !reflect.DeepEqual([]string(updated.Tags), wantTags) {
		t.Fatalf("tags: want=%v got=%v", wantTags, updated.Tags)
	}
	if statsRepo.ensureCalls != 1 || statsRepo.postIncrement != 1 {
		t.Fatalf("author stats: ensure=%d increment=%d", statsRepo.ensureCalls, statsRepo.postIncrement)
	}
}

func TestFinalizeContributionAlreadyFinalized(t *testing.T) {
	est := &types.Establishment{ID: uuid.New(), AverageRating: 8.2, PostCount: 5}
	post := draftPost(est.ID)
	post.Finalized = true

	estRepo := &fakeFinalizeEstRepo{est: est}
	postRepo := &fakeFinalizePostRepo{post: post}
	statsRepo := &recordingStatsRepo{}
	svc := finalizeFixture(t, estRepo, postRepo, statsRepo)

	updated, err := svc.FinalizeContribution(context.Background(), est.ID, post.ID, FinalizeInput{Ratings: types.Ratings{Overall: 9}})
	if err != nil {
		t.Fatalf("retried submit must be a no-op, got=%v", err)
	}

	// Counting the same contribution twice would corrupt the average.
	if updated.AverageRating != 8.2 || updated.PostCount != 5 {
		t.Fatalf("aggregates changed on a no-op: %+v", updated)
	}
	if estRepo.updateCalls != 0 {
		t.Fatalf("update calls: want=0 got=%d", estRepo.updateCalls)
	}
	if statsRepo.postIncrement != 0 {
		t.Fatalf("post increment: want=0 got=%d", statsRepo.postIncrement)
	}
}

func TestFinalizeContributionRecoversAfterConflict(t *testing.T) {
	est := &types.Establishment{ID: uuid.New(), AverageRating: 6.0, PostCount: 1}
	estRepo := &fakeFinalizeEstRepo{est: est, conflicts: 1}
	postRepo := &fakeFinalizePostRepo{post: draftPost(est.ID)}
	statsRepo := &recordingStatsRepo{}
	svc := finalizeFixture(t, estRepo, postRepo, statsRepo)

	updated, err := svc.FinalizeContribution(context.Background(), est.ID, postRepo.post.ID, FinalizeInput{Ratings: types.Ratings{Overall: 8}})
	if err != nil {
		t.Fatalf("finalize after one conflict: %v", err)
	}
	if estRepo.updateCalls != 2 {
		t.Fatalf("update calls: want=2 got=%d", estRepo.updateCalls)
	}
	if updated.PostCount != 2 {
		t.Fatalf("post count: want=2 got=%d", updated.PostCount)
	}
	if statsRepo.postIncrement != 1 {
		t.Fatalf("post increment: want=1 got=%d", statsRepo.postIncrement)
	}
}

func TestFinalizeContributionExhaustsRetries(t *testing.T) {
	est := &types.Establishment{ID: uuid.New(), AverageRating: 6.0, PostCount: 1}
	estRepo := &fakeFinalizeEstRepo{est: est, conflicts: 100}
	postRepo := &fakeFinalizePostRepo{post: draftPost(est.ID)}
	statsRepo := &recordingStatsRepo{}
	svc := finalizeFixture(t, estRepo, postRepo, statsRepo)

	_, err := svc.FinalizeContribution(context.Background(), est.ID, postRepo.post.ID, FinalizeInput{Ratings: types.Ratings{Overall: 8}})
	if !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Fatalf("want ErrUpstreamUnavailable, got=%v", err)
	}
	if estRepo.updateCalls != 3 {
		t.Fatalf("update calls: want=3 got=%d", estRepo.updateCalls)
	}
}

func TestFinalizeContributionRejectsOutOfRangeRating(t *testing.T) {
	svc := finalizeFixture(t, &fakeFinalizeEstRepo{}, &fakeFinalizePostRepo{}, &recordingStatsRepo{})

	if _, err := svc.FinalizeContribution(context.Background(), uuid.New(), uuid.New(), FinalizeInput{Ratings: types.Ratings{Overall: 0.5}}); err == nil {
		t.Fatalf("expected out-of-range rating to be rejected")
	}
}
