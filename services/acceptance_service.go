package services

import (
	"context"
	"errors"
	"fmt"

	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/models"
	"bridebuddy.app/pkg/identity"
	"bridebuddy.app/pkg/permissions"
	"bridebuddy.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Secondary effects that may fail without failing an acceptance.
const (
	WarningBestieProfile  = "bestie_profile_not_created"
	WarningWeddingSummary = "wedding_summary_unavailable"
)

// AcceptOutcome describes a redeemed invite.
type AcceptOutcome struct {
	Membership     *models.Membership  `json:"-"`
	Role           models.Role         `json:"role"`
	Wedding        *WeddingSummary     `json:"wedding,omitempty"`
	WeddingProfile models.Permissions  `json:"wedding_profile_permissions"`
	InviterAccess  *models.Permissions `json:"inviter_access,omitempty"`
	RedirectTo     string              `json:"redirect_to"`
	NextSteps      []string            `json:"next_steps,omitempty"`
	Warnings       []string            `json:"warnings,omitempty"`
}

// IAcceptanceService redeems invites.
type IAcceptanceService interface {
	Accept(ctx context.Context, token, bearer string) (*AcceptOutcome, error)
}

// AcceptanceService implements IAcceptanceService.
type AcceptanceService struct {
	db       *gorm.DB
	identity identity.IIdentityProvider
	invites  IInviteService
	ledger   IMembershipLedger
	members  repositories.IMembershipRepository
	weddings repositories.IWeddingRepository
	profiles repositories.IBestieProfileRepository
}

var _ IAcceptanceService = (*AcceptanceService)(nil)

func NewAcceptanceService(db *gorm.DB, idp identity.IIdentityProvider, invites IInviteService, ledger IMembershipLedger) IAcceptanceService {
	return &AcceptanceService{
		db:       db,
		identity: idp,
		invites:  invites,
		ledger:   ledger,
		members:  repositories.NewMembershipRepository(db),
		weddings: repositories.NewWeddingRepository(db),
		profiles: repositories.NewBestieProfileRepository(db),
	}
}

// Accept redeems token for the caller behind bearer. The invite claim, the
// membership and the bestie grant commit together or not at all; when several
// callers race for one invite exactly one wins and the rest see ErrAlreadyUsed.
func (s *AcceptanceService) Accept(ctx context.Context, token, bearer string) (*AcceptOutcome, error) {
	caller, err := s.identity.Verify(ctx, bearer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	invite, err := s.invites.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := s.members.FindByUserID(ctx, caller.UserID); err == nil {
		return nil, withReason(ErrAlreadyMember, "already_member", "you already belong to a wedding")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storageFailure("accept.membership", err)
	}

	var membership *models.Membership
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberTx := repositories.NewMembershipRepositoryTx(tx)
		grantTx := repositories.NewBestiePermissionRepositoryTx(tx)

		if err := s.invites.WithTx(tx).MarkUsed(ctx, token, caller.UserID); err != nil {
			return err
		}

		if err := checkAcceptCapacity(ctx, memberTx, invite); err != nil {
			return err
		}

		stored := invite.Permissions.Data()
		inviter := invite.CreatedBy
		in := AddMemberInput{
			WeddingID: invite.WeddingID,
			UserID:    caller.UserID,
			Role:      invite.Role,
			InvitedBy: &inviter,
			Stored:    &stored,
		}
		membership, err = s.ledger.WithTx(tx).Add(ctx, in)
		if err != nil {
			return err
		}

		if invite.Role == models.RoleBestie {
			def := permissions.DefaultBestieGrant()
			grant := &models.BestiePermission{
				BestieUserID:  caller.UserID,
				InviterUserID: invite.CreatedBy,
				WeddingID:     invite.WeddingID,
				CanRead:       def.CanRead,
				CanEdit:       def.CanEdit,
			}
			if err := grantTx.Create(ctx, grant); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, passThrough("accept.commit", err)
	}

	configslog.Log.Info("invite accepted",
		zap.String("invite_id", invite.ID.String()),
		zap.String("wedding_id", invite.WeddingID.String()),
		zap.String("role", string(invite.Role)),
		configslog.UserID("user_id", caller.UserID))

	return s.outcome(ctx, invite, membership), nil
}

func checkAcceptCapacity(ctx context.Context, members repositories.IMembershipRepository, invite *models.Invite) error {
	switch invite.Role {
	case models.RoleBestie:
		if _, err := members.FindSponsoredBestie(ctx, invite.WeddingID, invite.CreatedBy); err == nil {
			return withReason(ErrCardinalityExceeded, "limit_reached", "your inviter already has a bestie")
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		fallthrough
	case models.RoleOwner, models.RolePartner:
		n, err := members.CountByRole(ctx, invite.WeddingID, invite.Role)
		if err != nil {
			return err
		}
		if n >= int64(invite.Role.Slots()) {
			return withReason(ErrCardinalityExceeded, "limit_reached", "this wedding has no free "+string(invite.Role)+" slot")
		}
	}
	return nil
}

// outcome runs the best-effort steps; their failures become warnings.
func (s *AcceptanceService) outcome(ctx context.Context, invite *models.Invite, membership *models.Membership) *AcceptOutcome {
	out := &AcceptOutcome{
		Membership:     membership,
		Role:           invite.Role,
		WeddingProfile: permissions.WeddingProfileFor(invite.Role, nil),
		RedirectTo:     "/dashboard.html",
	}

	if invite.Role == models.RoleBestie {
		grant := permissions.DefaultBestieGrant()
		out.InviterAccess = &grant
		out.RedirectTo = "/bestie.html"
		out.NextSteps = []string{
			"Plan surprises and events in your private bestie space",
			"Your inviter cannot see your planning data until you grant access",
			"Change what your inviter can see under bestie permissions",
		}

		profile := &models.BestieProfile{
			BestieUserID: membership.UserID,
			WeddingID:    invite.WeddingID,
			BestieBrief:  models.DefaultBestieBrief,
		}
		if err := s.profiles.Ensure(ctx, profile); err != nil {
			configslog.Log.Warn("bestie profile could not be created",
				zap.String("wedding_id", invite.WeddingID.String()),
				configslog.UserID("user_id", membership.UserID),
				zap.Error(err))
			out.Warnings = append(out.Warnings, WarningBestieProfile)
		}
	}

	wedding, err := s.weddings.FindByID(ctx, invite.WeddingID)
	if err != nil {
		configslog.Log.Warn("wedding summary unavailable after acceptance",
			zap.String("wedding_id", invite.WeddingID.String()), zap.Error(err))
		out.Warnings = append(out.Warnings, WarningWeddingSummary)
	} else {
		out.Wedding = summarize(wedding)
	}
	return out
}
