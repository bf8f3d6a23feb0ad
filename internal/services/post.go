package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/clients/gcp"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/repos"
	"github.com/forkful/forkful-backend/internal/types"
)

// PostService manages the draft side of a contribution's lifecycle:
// creation with an establishment snapshot, and image attachment.
// Finalization belongs to the AggregateService.
type PostService interface {
	CreateDraft(ctx context.Context, userID, establishmentID uuid.UUID) (*types.Post, error)
	AttachImage(ctx context.Context, postID uuid.UUID, raw []byte, ext string) (*types.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Post, error)
}

type postService struct {
	db       *gorm.DB
	log      *logger.Logger
	postRepo repos.PostRepo
	estRepo  repos.EstablishmentRepo
	bucket   gcp.BucketService
}

func NewPostService(db *gorm.DB, log *logger.Logger, postRepo repos.PostRepo, estRepo repos.EstablishmentRepo, bucket gcp.BucketService) PostService {
	return &postService{
		db:       db,
		log:      log.With("service", "PostService"),
		postRepo: postRepo,
		estRepo:  estRepo,
		bucket:   bucket,
	}
}

func (ps *postService) CreateDraft(ctx context.Context, userID, establishmentID uuid.UUID) (*types.Post, error) {
	est, err := ps.estRepo.GetByID(ctx, nil, establishmentID)
	if err != nil {
		return nil, err
	}

	post := &types.Post{
		UserID:          userID,
		EstablishmentID: est.ID,

		EstablishmentName: est.Name,
		City:              est.City,
		Country:           est.Country,
		Latitude:          est.Latitude,
		Longitude:         est.Longitude,
		RatingAtTime:      est.AverageRating,

		Tags:      datatypes.NewJSONSlice([]string{}),
		ImageURLs: datatypes.NewJSONSlice([]string{}),
	}
	return ps.postRepo.Create(ctx, nil, post)
}

func (ps *postService) AttachImage(ctx context.Context, postID uuid.UUID, raw []byte, ext string) (*types.Post, error) {
	post, err := ps.postRepo.GetByID(ctx, nil, postID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("post_media/%s/%d%s", post.ID.String(), time.Now().UnixNano(), normalizeExt(ext))
	if err := ps.bucket.UploadFile(ctx, gcp.BucketCategoryPostMedia, key, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("upload post image: %w", err)
	}

	post.ImageURLs = append(post.ImageURLs, ps.bucket.GetPublicURL(gcp.BucketCategoryPostMedia, key))
	if err := ps.postRepo.Update(ctx, nil, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (ps *postService) Get(ctx context.Context, id uuid.UUID) (*types.Post, error) {
	return ps.postRepo.GetByID(ctx, nil, id)
}

func normalizeExt(ext string) string {
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
		return ext
	case "png", "jpg", "jpeg", "webp":
		return "." + ext
	default:
		return ".jpg"
	}
}
