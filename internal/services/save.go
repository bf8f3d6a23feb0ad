package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/repos"
	"github.com/forkful/forkful-backend/internal/types"
)

type SaveService interface {
	Save(ctx context.Context, userID, establishmentID uuid.UUID) error
	Unsave(ctx context.Context, userID, establishmentID uuid.UUID) error
	SavedByUser(ctx context.Context, userID uuid.UUID) ([]*types.Save, error)
}

type saveService struct {
	db       *gorm.DB
	log      *logger.Logger
	saveRepo repos.SaveRepo
	estRepo  repos.EstablishmentRepo
}

func NewSaveService(db *gorm.DB, log *logger.Logger, saveRepo repos.SaveRepo, estRepo repos.EstablishmentRepo) SaveService {
	return &saveService{
		db:       db,
		log:      log.With("service", "SaveService"),
		saveRepo: saveRepo,
		estRepo:  estRepo,
	}
}

func (ss *saveService) Save(ctx context.Context, userID, establishmentID uuid.UUID) error {
	if _, err := ss.estRepo.GetByID(ctx, nil, establishmentID); err != nil {
		return err
	}
	_, err := ss.saveRepo.Create(ctx, nil, &types.Save{UserID: userID, EstablishmentID: establishmentID})
	return err
}

func (ss *saveService) Unsave(ctx context.Context, userID, establishmentID uuid.UUID) error {
	_, err := ss.saveRepo.Delete(ctx, nil, userID, establishmentID)
	return err
}

func (ss *saveService) SavedByUser(ctx context.Context, userID uuid.UUID) ([]*types.Save, error) {
	return ss.saveRepo.ByUser(ctx, nil, userID)
}
