package repositories

import (
	"context"
	"errors"

	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IMembershipRepository membership persistence. Cardinality is enforced by the
// unique indexes; Create surfaces violations as ErrDuplicate.
type IMembershipRepository interface {
	Create(ctx context.Context, membership *models.Membership) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Membership, error)
	CountByRole(ctx context.Context, weddingID uuid.UUID, role models.Role) (int64, error)
	// FindSponsoredBestie returns the bestie invited by inviterID, if any.
	FindSponsoredBestie(ctx context.Context, weddingID, inviterID uuid.UUID) (*models.Membership, error)
}

// MembershipRepository implements IMembershipRepository.
type MembershipRepository struct {
	db *gorm.DB
}

var _ IMembershipRepository = (*MembershipRepository)(nil)

func NewMembershipRepository(db *gorm.DB) IMembershipRepository {
	return &MembershipRepository{db: db}
}

// NewMembershipRepositoryTx binds the repository to an open transaction.
func NewMembershipRepositoryTx(tx *gorm.DB) IMembershipRepository {
	return &MembershipRepository{db: tx}
}

func (r *MembershipRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create inserts inside a savepoint so a unique violation leaves an enclosing
// Postgres transaction usable for a retry.
func (r *MembershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	if membership == nil || membership.WeddingID == uuid.Nil || membership.UserID == uuid.Nil {
		return errors.New("membership without wedding or user cannot be created")
	}
	if !membership.Role.Valid() {
		return errors.New("membership with unknown role cannot be created")
	}
	err := r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(membership).Error
	})
	return translate(err)
}

func (r *MembershipRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Membership, error) {
	var m models.Membership
	if err := r.getDB(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("MembershipRepository.FindByUserID: DB error", configslog.UserID("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &m, nil
}

func (r *MembershipRepository) CountByRole(ctx context.Context, weddingID uuid.UUID, role models.Role) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Membership{}).
		Where("wedding_id = ? AND role = ?", weddingID, role).
		Count(&count).Error
	return count, err
}

func (r *MembershipRepository) FindSponsoredBestie(ctx context.Context, weddingID, inviterID uuid.UUID) (*models.Membership, error) {
	var m models.Membership
	err := r.getDB(ctx).
		Where("wedding_id = ? AND role = ? AND invited_by = ?", weddingID, models.RoleBestie, inviterID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
