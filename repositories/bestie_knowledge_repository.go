package repositories

import (
	"context"
	"errors"

	"bridebuddy.app/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IBestieKnowledgeRepository stores a bestie's planning items.
type IBestieKnowledgeRepository interface {
	Create(ctx context.Context, item *models.BestieKnowledge) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.BestieKnowledge, error)
	// ListByBestie returns the bestie's items, newest first. Private items are
	// only included when includePrivate is set.
	ListByBestie(ctx context.Context, bestieID, weddingID uuid.UUID, includePrivate bool) ([]models.BestieKnowledge, error)
	Update(ctx context.Context, item *models.BestieKnowledge) error
}

// BestieKnowledgeRepository implements IBestieKnowledgeRepository.
type BestieKnowledgeRepository struct {
	db *gorm.DB
}

var _ IBestieKnowledgeRepository = (*BestieKnowledgeRepository)(nil)

func NewBestieKnowledgeRepository(db *gorm.DB) IBestieKnowledgeRepository {
	return &BestieKnowledgeRepository{db: db}
}

func (r *BestieKnowledgeRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *BestieKnowledgeRepository) Create(ctx context.Context, item *models.BestieKnowledge) error {
	if item == nil || item.BestieUserID == uuid.Nil || item.WeddingID == uuid.Nil {
		return errors.New("knowledge item without bestie or wedding cannot be created")
	}
	return r.getDB(ctx).Create(item).Error
}

func (r *BestieKnowledgeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.BestieKnowledge, error) {
	var item models.BestieKnowledge
	if err := r.getDB(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translateFind(err)
	}
	return &item, nil
}

func (r *BestieKnowledgeRepository) ListByBestie(ctx context.Context, bestieID, weddingID uuid.UUID, includePrivate bool) ([]models.BestieKnowledge, error) {
	query := r.getDB(ctx).Where("bestie_user_id = ? AND wedding_id = ?", bestieID, weddingID)
	if !includePrivate {
		query = query.Where("is_private = ?", false)
	}
	var items []models.BestieKnowledge
	err := query.Order("created_at desc").Find(&items).Error
	return items, err
}

func (r *BestieKnowledgeRepository) Update(ctx context.Context, item *models.BestieKnowledge) error {
	if item == nil || item.ID == uuid.Nil {
		return errors.New("knowledge item without id cannot be updated")
	}
	result := r.getDB(ctx).Model(&models.BestieKnowledge{}).Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"category":   item.Category,
			"content":    item.Content,
			"is_private": item.IsPrivate,
			"updated_by": item.UpdatedBy,
			"edited_at":  item.EditedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
