package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/models"
	"bridebuddy.app/pkg/permissions"
	"bridebuddy.app/pkg/tokens"
	"bridebuddy.app/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InviteConfig tunes invite issuance. A zero TTL issues invites that never
// expire. Invite URLs are PublicBaseURL + AcceptPath + "?token="; they are
// omitted when either is empty.
type InviteConfig struct {
	TTL           time.Duration
	PublicBaseURL string
	AcceptPath    string
	Now           Clock
}

// IssuedInvite is returned once, at issuance. Token is never persisted.
type IssuedInvite struct {
	Invite *models.Invite
	Token  string
	URL    string
}

// WeddingSummary is the public face of a wedding.
type WeddingSummary struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	WeddingDate *time.Time `json:"wedding_date,omitempty"`
}

func summarize(w *models.Wedding) *WeddingSummary {
	if w == nil {
		return nil
	}
	return &WeddingSummary{ID: w.ID, Name: w.DisplayName(), WeddingDate: w.WeddingDate}
}

// InviteInfo is what an unauthenticated visitor sees for a pending invite.
type InviteInfo struct {
	Role            models.Role        `json:"role"`
	RoleDisplayName string             `json:"role_display_name"`
	Wedding         *WeddingSummary    `json:"wedding"`
	InviterRole     models.Role        `json:"inviter_role,omitempty"`
	Permissions     models.Permissions `json:"wedding_profile_permissions"`
	ExpiresAt       *time.Time         `json:"expires_at,omitempty"`
}

// IInviteService issues and resolves invites.
type IInviteService interface {
	IssueInvite(ctx context.Context, creatorID uuid.UUID, role models.Role, defaults *models.Permissions) (*IssuedInvite, error)
	// Lookup never mutates. Used and expired invites are returned alongside
	// ErrAlreadyUsed / ErrExpired.
	Lookup(ctx context.Context, token string) (*models.Invite, error)
	InviteInfo(ctx context.Context, token string) (*InviteInfo, error)
	// MarkUsed claims the invite for consumerID with one conditional update.
	// A claim matching no row resolves to ErrAlreadyUsed, ErrExpired or
	// ErrNotFound.
	MarkUsed(ctx context.Context, token string, consumerID uuid.UUID) error
	WithTx(tx *gorm.DB) IInviteService
}

// InviteService implements IInviteService.
type InviteService struct {
	db       *gorm.DB
	invites  repositories.IInviteRepository
	members  repositories.IMembershipRepository
	weddings repositories.IWeddingRepository
	cfg      InviteConfig
	now      Clock
}

var _ IInviteService = (*InviteService)(nil)

func NewInviteService(db *gorm.DB, cfg InviteConfig) IInviteService {
	return &InviteService{
		db:       db,
		invites:  repositories.NewInviteRepository(db),
		members:  repositories.NewMembershipRepository(db),
		weddings: repositories.NewWeddingRepository(db),
		cfg:      cfg,
		now:      cfg.Now.orDefault(),
	}
}

// WithTx returns a copy whose reads and writes run inside tx.
func (s *InviteService) WithTx(tx *gorm.DB) IInviteService {
	return &InviteService{
		db:       tx,
		invites:  repositories.NewInviteRepositoryTx(tx),
		members:  repositories.NewMembershipRepositoryTx(tx),
		weddings: repositories.NewWeddingRepositoryTx(tx),
		cfg:      s.cfg,
		now:      s.now,
	}
}

func (s *InviteService) IssueInvite(ctx context.Context, creatorID uuid.UUID, role models.Role, defaults *models.Permissions) (*IssuedInvite, error) {
	if !role.Valid() {
		return nil, withReason(ErrInvalidInput, "invalid_role", fmt.Sprintf("role %q is not one of owner, partner, bestie", role))
	}
	if defaults != nil {
		if err := permissions.ValidateGrant(*defaults); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if role == models.RoleBestie && defaults.CanEdit {
			return nil, withReason(ErrInvalidInput, "invalid_permissions", "besties cannot be granted edit access to the wedding profile")
		}
	}
	// The invite records what the role resolves to, never the raw request.
	perms := permissions.WeddingProfileFor(role, defaults)

	creator, err := s.members.FindByUserID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, withReason(ErrNotAuthorized, "not_authorized", "you must belong to a wedding to invite others")
		}
		return nil, storageFailure("invite.creator", err)
	}
	if !creator.Role.CanInvite() {
		return nil, withReason(ErrNotAuthorized, "not_authorized", "only the owner or partner can create invites")
	}
	if role == models.RoleOwner {
		return nil, withReason(ErrCardinalityExceeded, "limit_reached", "a wedding has exactly one owner")
	}

	token, err := tokens.Generate()
	if err != nil {
		return nil, storageFailure("invite.token", err)
	}
	digest, err := tokens.Digest(token)
	if err != nil {
		return nil, storageFailure("invite.digest", err)
	}

	now := s.now()
	invite := &models.Invite{
		TokenDigest: digest,
		WeddingID:   creator.WeddingID,
		Role:        role,
		CreatedBy:   creatorID,
		Permissions: datatypes.NewJSONType(perms),
	}
	if s.cfg.TTL > 0 {
		exp := now.Add(s.cfg.TTL)
		invite.ExpiresAt = &exp
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		weddingTx := repositories.NewWeddingRepositoryTx(tx)
		inviteTx := repositories.NewInviteRepositoryTx(tx)
		memberTx := repositories.NewMembershipRepositoryTx(tx)

		// Serialises issuance per wedding.
		wedding, err := weddingTx.FindByIDForUpdate(ctx, creator.WeddingID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if role == models.RoleBestie && !wedding.BestieAddonEnabled {
			return withReason(ErrNotAuthorized, "addon_disabled", "the bestie add-on is not enabled for this wedding")
		}
		if err := s.checkIssuanceCapacity(ctx, inviteTx, memberTx, creator, role, now); err != nil {
			return err
		}
		return inviteTx.Create(ctx, invite)
	})
	if err != nil {
		return nil, passThrough("invite.issue", err)
	}

	configslog.Log.Info("invite issued",
		zap.String("wedding_id", invite.WeddingID.String()),
		zap.String("invite_id", invite.ID.String()),
		zap.String("role", string(role)),
		configslog.UserID("created_by", creatorID),
		configslog.Token("token", token))

	return &IssuedInvite{Invite: invite, Token: token, URL: s.inviteURL(token)}, nil
}

// checkIssuanceCapacity counts pending unexpired invites as reserved slots.
func (s *InviteService) checkIssuanceCapacity(ctx context.Context, invites repositories.IInviteRepository, members repositories.IMembershipRepository, creator *models.Membership, role models.Role, now time.Time) error {
	switch role {
	case models.RolePartner:
		partners, err := members.CountByRole(ctx, creator.WeddingID, models.RolePartner)
		if err != nil {
			return err
		}
		pending, err := invites.CountPending(ctx, creator.WeddingID, models.RolePartner, now)
		if err != nil {
			return err
		}
		if partners > 0 {
			return withReason(ErrCardinalityExceeded, "limit_reached", "this wedding already has a partner")
		}
		if pending > 0 {
			return withReason(ErrCardinalityExceeded, "limit_reached", "a partner invite is already pending")
		}

	case models.RoleBestie:
		if _, err := members.FindSponsoredBestie(ctx, creator.WeddingID, creator.UserID); err == nil {
			return withReason(ErrCardinalityExceeded, "limit_reached", "you already have a bestie")
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		mine, err := invites.CountPendingByCreator(ctx, creator.WeddingID, creator.UserID, models.RoleBestie, now)
		if err != nil {
			return err
		}
		if mine > 0 {
			return withReason(ErrCardinalityExceeded, "limit_reached", "you already have a pending bestie invite")
		}
		besties, err := members.CountByRole(ctx, creator.WeddingID, models.RoleBestie)
		if err != nil {
			return err
		}
		pending, err := invites.CountPending(ctx, creator.WeddingID, models.RoleBestie, now)
		if err != nil {
			return err
		}
		if besties+pending >= int64(models.RoleBestie.Slots()) {
			return withReason(ErrCardinalityExceeded, "limit_reached", "this wedding already has two besties")
		}
	}
	return nil
}

func (s *InviteService) inviteURL(token string) string {
	if s.cfg.PublicBaseURL == "" || s.cfg.AcceptPath == "" {
		return ""
	}
	return s.cfg.PublicBaseURL + s.cfg.AcceptPath + "?token=" + url.QueryEscape(token)
}

func (s *InviteService) Lookup(ctx context.Context, token string) (*models.Invite, error) {
	digest, err := tokens.Digest(token)
	if err != nil {
		return nil, ErrNotFound
	}
	invite, err := s.invites.FindByDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageFailure("invite.lookup", err)
	}
	if invite.PendingAt(s.now()) {
		return invite, nil
	}
	if invite.Used {
		return invite, ErrAlreadyUsed
	}
	return invite, ErrExpired
}

func (s *InviteService) MarkUsed(ctx context.Context, token string, consumerID uuid.UUID) error {
	digest, err := tokens.Digest(token)
	if err != nil {
		return ErrNotFound
	}
	now := s.now()
	claimed, err := s.invites.ClaimByDigest(ctx, digest, consumerID, now)
	if err != nil {
		return storageFailure("invite.claim", err)
	}
	if claimed {
		return nil
	}

	current, err := s.invites.FindByDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return storageFailure("invite.claim", err)
	}
	if !current.Used && current.ExpiredAt(now) {
		return ErrExpired
	}
	return ErrAlreadyUsed
}

func (s *InviteService) InviteInfo(ctx context.Context, token string) (*InviteInfo, error) {
	invite, err := s.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	wedding, err := s.weddings.FindByID(ctx, invite.WeddingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageFailure("invite.wedding", err)
	}

	info := &InviteInfo{
		Role:            invite.Role,
		RoleDisplayName: invite.Role.DisplayName(),
		Wedding:         summarize(wedding),
		Permissions:     permissions.WeddingProfileFor(invite.Role, nil),
		ExpiresAt:       invite.ExpiresAt,
	}
	if inviter, err := s.members.FindByUserID(ctx, invite.CreatedBy); err == nil {
		info.InviterRole = inviter.Role
	} else if !errors.Is(err, repositories.ErrNotFound) {
		configslog.Log.Warn("invite info: inviter lookup failed", zap.Error(err))
	}
	return info, nil
}
