package services

import (
	"context"
	"errors"

	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/models"
	"bridebuddy.app/pkg/permissions"
	"bridebuddy.app/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AddMemberInput describes a membership to record.
type AddMemberInput struct {
	WeddingID uuid.UUID
	UserID    uuid.UUID
	Role      models.Role
	// InvitedBy is the member whose invite was redeemed. Only the wedding
	// creator joins without one.
	InvitedBy *uuid.UUID
	// Stored are the permissions carried by the invite; the ledger persists the
	// role-resolved value.
	Stored *models.Permissions
}

// IMembershipLedger records who belongs to which wedding.
type IMembershipLedger interface {
	Add(ctx context.Context, in AddMemberInput) (*models.Membership, error)
	SeedOwner(ctx context.Context, weddingID, userID uuid.UUID) (*models.Membership, error)
	ForUser(ctx context.Context, userID uuid.UUID) (*models.Membership, error)
	// WithTx returns a ledger whose writes join tx.
	WithTx(tx *gorm.DB) IMembershipLedger
}

// MembershipLedger implements IMembershipLedger on top of the membership
// repository's unique indexes.
type MembershipLedger struct {
	repo repositories.IMembershipRepository
}

var _ IMembershipLedger = (*MembershipLedger)(nil)

func NewMembershipLedger(db *gorm.DB) IMembershipLedger {
	return &MembershipLedger{repo: repositories.NewMembershipRepository(db)}
}

func (l *MembershipLedger) WithTx(tx *gorm.DB) IMembershipLedger {
	return &MembershipLedger{repo: repositories.NewMembershipRepositoryTx(tx)}
}

// Add inserts the membership into the first free slot of its role. The store
// rejects a second membership for the user, a third bestie and a second bestie
// for the same inviter; those rejections come back as AlreadyMember or
// CardinalityExceeded.
func (l *MembershipLedger) Add(ctx context.Context, in AddMemberInput) (*models.Membership, error) {
	if !in.Role.Valid() || in.WeddingID == uuid.Nil || in.UserID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if in.Role != models.RoleOwner && in.InvitedBy == nil {
		return nil, withReason(ErrInvalidInput, "invalid_input", string(in.Role)+" membership requires an inviter")
	}

	if _, err := l.repo.FindByUserID(ctx, in.UserID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storageFailure("membership.find", err)
	}

	perms := permissions.WeddingProfileFor(in.Role, in.Stored)
	for slot := 1; slot <= in.Role.Slots(); slot++ {
		m := &models.Membership{
			WeddingID:   in.WeddingID,
			UserID:      in.UserID,
			Role:        in.Role,
			Slot:        slot,
			InvitedBy:   in.InvitedBy,
			Permissions: datatypes.NewJSONType(perms),
		}
		err := l.repo.Create(ctx, m)
		if err == nil {
			configslog.Log.Info("membership added",
				zap.String("wedding_id", in.WeddingID.String()),
				zap.String("role", string(in.Role)),
				zap.Int("slot", slot),
				configslog.UserID("user_id", in.UserID))
			return m, nil
		}
		if !repositories.IsUniqueViolation(err) {
			return nil, storageFailure("membership.create", err)
		}
		// Work out which index fired.
		if _, ferr := l.repo.FindByUserID(ctx, in.UserID); ferr == nil {
			return nil, ErrAlreadyMember
		}
		if in.Role == models.RoleBestie {
			if _, ferr := l.repo.FindSponsoredBestie(ctx, in.WeddingID, *in.InvitedBy); ferr == nil {
				return nil, withReason(ErrCardinalityExceeded, "limit_reached", "inviter already has a bestie")
			}
		}
	}
	return nil, withReason(ErrCardinalityExceeded, "limit_reached", "wedding already has the maximum number of "+string(in.Role)+"s")
}

func (l *MembershipLedger) SeedOwner(ctx context.Context, weddingID, userID uuid.UUID) (*models.Membership, error) {
	return l.Add(ctx, AddMemberInput{WeddingID: weddingID, UserID: userID, Role: models.RoleOwner})
}

func (l *MembershipLedger) ForUser(ctx context.Context, userID uuid.UUID) (*models.Membership, error) {
	m, err := l.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageFailure("membership.find", err)
	}
	return m, nil
}
