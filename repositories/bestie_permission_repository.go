package repositories

import (
	"context"
	"errors"

	"bridebuddy.app/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IBestiePermissionRepository stores the grants besties give their inviters.
type IBestiePermissionRepository interface {
	Create(ctx context.Context, grant *models.BestiePermission) error
	FindByBestie(ctx context.Context, bestieID, weddingID uuid.UUID) (*models.BestiePermission, error)
	FindByInviter(ctx context.Context, inviterID, weddingID uuid.UUID) (*models.BestiePermission, error)
	// UpdateGrant changes the pair on the bestie's own row only.
	UpdateGrant(ctx context.Context, bestieID, weddingID uuid.UUID, grant models.Permissions) (*models.BestiePermission, error)
}

// BestiePermissionRepository implements IBestiePermissionRepository.
type BestiePermissionRepository struct {
	db *gorm.DB
}

var _ IBestiePermissionRepository = (*BestiePermissionRepository)(nil)

func NewBestiePermissionRepository(db *gorm.DB) IBestiePermissionRepository {
	return &BestiePermissionRepository{db: db}
}

// NewBestiePermissionRepositoryTx binds the repository to an open transaction.
func NewBestiePermissionRepositoryTx(tx *gorm.DB) IBestiePermissionRepository {
	return &BestiePermissionRepository{db: tx}
}

func (r *BestiePermissionRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *BestiePermissionRepository) Create(ctx context.Context, grant *models.BestiePermission) error {
	if grant == nil || grant.BestieUserID == uuid.Nil || grant.InviterUserID == uuid.Nil {
		return errors.New("grant without bestie or inviter cannot be created")
	}
	if grant.CanEdit && !grant.CanRead {
		return errors.New("grant with edit but without read cannot be stored")
	}
	return translate(r.getDB(ctx).Create(grant).Error)
}

func (r *BestiePermissionRepository) FindByBestie(ctx context.Context, bestieID, weddingID uuid.UUID) (*models.BestiePermission, error) {
	var grant models.BestiePermission
	if err := r.getDB(ctx).Where("bestie_user_id = ? AND wedding_id = ?", bestieID, weddingID).First(&grant).Error; err != nil {
		return nil, translateFind(err)
	}
	return &grant, nil
}

func (r *BestiePermissionRepository) FindByInviter(ctx context.Context, inviterID, weddingID uuid.UUID) (*models.BestiePermission, error) {
	var grant models.BestiePermission
	if err := r.getDB(ctx).Where("inviter_user_id = ? AND wedding_id = ?", inviterID, weddingID).First(&grant).Error; err != nil {
		return nil, translateFind(err)
	}
	return &grant, nil
}

func (r *BestiePermissionRepository) UpdateGrant(ctx context.Context, bestieID, weddingID uuid.UUID, grant models.Permissions) (*models.BestiePermission, error) {
	if grant.CanEdit && !grant.CanRead {
		return nil, errors.New("grant with edit but without read cannot be stored")
	}
	result := r.getDB(ctx).Model(&models.BestiePermission{}).
		Where("bestie_user_id = ? AND wedding_id = ?", bestieID, weddingID).
		Updates(map[string]interface{}{"can_read": grant.CanRead, "can_edit": grant.CanEdit})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByBestie(ctx, bestieID, weddingID)
}
