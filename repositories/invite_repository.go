package repositories

import (
	"context"
	"errors"
	"time"

	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IInviteRepository invite persistence. Invites are looked up by token digest
// only and are never deleted.
type IInviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	FindByDigest(ctx context.Context, digest string) (*models.Invite, error)
	// ClaimByDigest marks the invite used by userID if, and only if, it is still
	// unused and unexpired at now. It reports whether this call claimed it.
	ClaimByDigest(ctx context.Context, digest string, userID uuid.UUID, now time.Time) (bool, error)
	CountPending(ctx context.Context, weddingID uuid.UUID, role models.Role, now time.Time) (int64, error)
	CountPendingByCreator(ctx context.Context, weddingID, creatorID uuid.UUID, role models.Role, now time.Time) (int64, error)
}

// InviteRepository implements IInviteRepository.
type InviteRepository struct {
	db *gorm.DB
}

var _ IInviteRepository = (*InviteRepository)(nil)

func NewInviteRepository(db *gorm.DB) IInviteRepository {
	return &InviteRepository{db: db}
}

// NewInviteRepositoryTx binds the repository to an open transaction.
func NewInviteRepositoryTx(tx *gorm.DB) IInviteRepository {
	return &InviteRepository{db: tx}
}

func (r *InviteRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *InviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	if invite == nil || invite.TokenDigest == "" || invite.WeddingID == uuid.Nil {
		return errors.New("invite without digest or wedding cannot be created")
	}
	return translate(r.getDB(ctx).Create(invite).Error)
}

func (r *InviteRepository) FindByDigest(ctx context.Context, digest string) (*models.Invite, error) {
	var invite models.Invite
	if err := r.getDB(ctx).Where("token_digest = ?", digest).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("InviteRepository.FindByDigest: DB error", zap.Error(err))
		return nil, err
	}
	return &invite, nil
}

func (r *InviteRepository) ClaimByDigest(ctx context.Context, digest string, userID uuid.UUID, now time.Time) (bool, error) {
	result := r.getDB(ctx).Model(&models.Invite{}).
		Where("token_digest = ? AND used = ? AND (expires_at IS NULL OR expires_at > ?)", digest, false, now).
		Updates(map[string]interface{}{
			"used":    true,
			"used_by": userID,
			"used_at": now,
		})
	if result.Error != nil {
		configslog.Log.Error("InviteRepository.ClaimByDigest: DB error", zap.Error(result.Error))
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *InviteRepository) pending(ctx context.Context, weddingID uuid.UUID, role models.Role, now time.Time) *gorm.DB {
	return r.getDB(ctx).Model(&models.Invite{}).
		Where("wedding_id = ? AND role = ? AND used = ?", weddingID, role, false).
		Where("(expires_at IS NULL OR expires_at > ?)", now)
}

func (r *InviteRepository) CountPending(ctx context.Context, weddingID uuid.UUID, role models.Role, now time.Time) (int64, error) {
	var count int64
	err := r.pending(ctx, weddingID, role, now).Count(&count).Error
	return count, err
}

func (r *InviteRepository) CountPendingByCreator(ctx context.Context, weddingID, creatorID uuid.UUID, role models.Role, now time.Time) (int64, error) {
	var count int64
	err := r.pending(ctx, weddingID, role, now).Where("created_by = ?", creatorID).Count(&count).Error
	return count, err
}
