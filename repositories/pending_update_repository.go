package repositories

import (
	"context"
	"errors"
	"time"

	"bridebuddy.app/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IPendingUpdateRepository stores proposed wedding profile changes.
type IPendingUpdateRepository interface {
	Create(ctx context.Context, update *models.PendingUpdate) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.PendingUpdate, error)
	ListByWedding(ctx context.Context, weddingID uuid.UUID, status models.UpdateStatus) ([]models.PendingUpdate, error)
	// Decide moves a pending update to status. It reports false when the update
	// was no longer pending.
	Decide(ctx context.Context, id uuid.UUID, status models.UpdateStatus, decidedBy uuid.UUID, at time.Time) (bool, error)
}

// PendingUpdateRepository implements IPendingUpdateRepository.
type PendingUpdateRepository struct {
	db *gorm.DB
}

var _ IPendingUpdateRepository = (*PendingUpdateRepository)(nil)

func NewPendingUpdateRepository(db *gorm.DB) IPendingUpdateRepository {
	return &PendingUpdateRepository{db: db}
}

// NewPendingUpdateRepositoryTx binds the repository to an open transaction.
func NewPendingUpdateRepositoryTx(tx *gorm.DB) IPendingUpdateRepository {
	return &PendingUpdateRepository{db: tx}
}

func (r *PendingUpdateRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *PendingUpdateRepository) Create(ctx context.Context, update *models.PendingUpdate) error {
	if update == nil || update.WeddingID == uuid.Nil || update.FieldName == "" {
		return errors.New("pending update without wedding or field cannot be created")
	}
	if update.Status == "" {
		update.Status = models.UpdateStatusPending
	}
	return r.getDB(ctx).Create(update).Error
}

func (r *PendingUpdateRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.PendingUpdate, error) {
	var update models.PendingUpdate
	if err := r.getDB(ctx).Where("id = ?", id).First(&update).Error; err != nil {
		return nil, translateFind(err)
	}
	return &update, nil
}

func (r *PendingUpdateRepository) ListByWedding(ctx context.Context, weddingID uuid.UUID, status models.UpdateStatus) ([]models.PendingUpdate, error) {
	query := r.getDB(ctx).Where("wedding_id = ?", weddingID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var list []models.PendingUpdate
	err := query.Order("created_at asc").Find(&list).Error
	return list, err
}

func (r *PendingUpdateRepository) Decide(ctx context.Context, id uuid.UUID, status models.UpdateStatus, decidedBy uuid.UUID, at time.Time) (bool, error) {
	result := r.getDB(ctx).Model(&models.PendingUpdate{}).
		Where("id = ? AND status = ?", id, models.UpdateStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
