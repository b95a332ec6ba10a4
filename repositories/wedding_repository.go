package repositories

import (
	"context"
	"errors"

	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IWeddingRepository wedding profile persistence.
type IWeddingRepository interface {
	Create(ctx context.Context, wedding *models.Wedding) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Wedding, error)
	// FindByIDForUpdate row-locks the wedding for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Wedding, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

// WeddingRepository implements IWeddingRepository.
type WeddingRepository struct {
	db *gorm.DB
}

var _ IWeddingRepository = (*WeddingRepository)(nil)

func NewWeddingRepository(db *gorm.DB) IWeddingRepository {
	return &WeddingRepository{db: db}
}

// NewWeddingRepositoryTx binds the repository to an open transaction.
func NewWeddingRepositoryTx(tx *gorm.DB) IWeddingRepository {
	return &WeddingRepository{db: tx}
}

func (r *WeddingRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *WeddingRepository) Create(ctx context.Context, wedding *models.Wedding) error {
	if wedding == nil || wedding.OwnerID == uuid.Nil {
		return errors.New("wedding without owner cannot be created")
	}
	return translate(r.getDB(ctx).Create(wedding).Error)
}

func (r *WeddingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Wedding, error) {
	return r.find(r.getDB(ctx), id)
}

func (r *WeddingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Wedding, error) {
	return r.find(r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *WeddingRepository) find(db *gorm.DB, id uuid.UUID) (*models.Wedding, error) {
	var wedding models.Wedding
	if err := db.Where("id = ?", id).First(&wedding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("WeddingRepository.find: DB error", zap.String("wedding_id", id.String()), zap.Error(err))
		return nil, err
	}
	return &wedding, nil
}

func (r *WeddingRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.getDB(ctx).Model(&models.Wedding{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
