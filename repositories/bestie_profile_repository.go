package repositories

import (
	"context"
	"errors"

	"bridebuddy.app/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IBestieProfileRepository stores besties' private planning spaces.
type IBestieProfileRepository interface {
	// Ensure creates the profile unless one already exists for the bestie.
	Ensure(ctx context.Context, profile *models.BestieProfile) error
	FindByBestie(ctx context.Context, bestieID, weddingID uuid.UUID) (*models.BestieProfile, error)
}

// BestieProfileRepository implements IBestieProfileRepository.
type BestieProfileRepository struct {
	db *gorm.DB
}

var _ IBestieProfileRepository = (*BestieProfileRepository)(nil)

func NewBestieProfileRepository(db *gorm.DB) IBestieProfileRepository {
	return &BestieProfileRepository{db: db}
}

func (r *BestieProfileRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *BestieProfileRepository) Ensure(ctx context.Context, profile *models.BestieProfile) error {
	if profile == nil || profile.BestieUserID == uuid.Nil || profile.WeddingID == uuid.Nil {
		return errors.New("bestie profile without bestie or wedding cannot be created")
	}
	return r.getDB(ctx).
		Where(models.BestieProfile{BestieUserID: profile.BestieUserID, WeddingID: profile.WeddingID}).
		Attrs(models.BestieProfile{BestieBrief: profile.BestieBrief}).
		FirstOrCreate(profile).Error
}

func (r *BestieProfileRepository) FindByBestie(ctx context.Context, bestieID, weddingID uuid.UUID) (*models.BestieProfile, error) {
	var profile models.BestieProfile
	if err := r.getDB(ctx).Where("bestie_user_id = ? AND wedding_id = ?", bestieID, weddingID).First(&profile).Error; err != nil {
		return nil, translateFind(err)
	}
	return &profile, nil
}
