package services

import (
	"context"
	"errors"
	"fmt"

	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/models"
	"bridebuddy.app/pkg/permissions"
	"bridebuddy.app/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BestiePermissionsView is a bestie's own view of what their inviter may do.
type BestiePermissionsView struct {
	InviterUserID  uuid.UUID                  `json:"inviter_user_id"`
	InviterAccess  models.Permissions         `json:"inviter_access"`
	WeddingProfile models.Permissions         `json:"wedding_profile_permissions"`
	Stats          permissions.KnowledgeStats `json:"knowledge_stats"`
}

// IBestiePermissionService lets a bestie inspect and change their grant.
type IBestiePermissionService interface {
	GetMyPermissions(ctx context.Context, bestieID uuid.UUID) (*BestiePermissionsView, error)
	UpdateInviterAccess(ctx context.Context, bestieID uuid.UUID, grant models.Permissions) (*BestiePermissionsView, error)
}

// BestiePermissionService implements IBestiePermissionService.
type BestiePermissionService struct {
	ledger    IMembershipLedger
	grants    repositories.IBestiePermissionRepository
	knowledge repositories.IBestieKnowledgeRepository
}

var _ IBestiePermissionService = (*BestiePermissionService)(nil)

func NewBestiePermissionService(db *gorm.DB, ledger IMembershipLedger) IBestiePermissionService {
	return &BestiePermissionService{
		ledger:    ledger,
		grants:    repositories.NewBestiePermissionRepository(db),
		knowledge: repositories.NewBestieKnowledgeRepository(db),
	}
}

// requireBestie returns the caller's membership if they are a bestie.
func requireBestie(ctx context.Context, ledger IMembershipLedger, userID uuid.UUID) (*models.Membership, error) {
	m, err := ledger.ForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, withReason(ErrNotAuthorized, "not_authorized", "only besties have inviter access settings")
		}
		return nil, err
	}
	if m.Role != models.RoleBestie {
		return nil, withReason(ErrNotAuthorized, "not_authorized", "only besties have inviter access settings")
	}
	return m, nil
}

func (s *BestiePermissionService) GetMyPermissions(ctx context.Context, bestieID uuid.UUID) (*BestiePermissionsView, error) {
	m, err := requireBestie(ctx, s.ledger, bestieID)
	if err != nil {
		return nil, err
	}
	grant, err := s.grants.FindByBestie(ctx, bestieID, m.WeddingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageFailure("grant.find", err)
	}
	return s.view(ctx, m, grant)
}

// UpdateInviterAccess validates before touching storage, so a rejected pair
// leaves the previous grant in place.
func (s *BestiePermissionService) UpdateInviterAccess(ctx context.Context, bestieID uuid.UUID, grant models.Permissions) (*BestiePermissionsView, error) {
	if err := permissions.ValidateGrant(grant); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	m, err := requireBestie(ctx, s.ledger, bestieID)
	if err != nil {
		return nil, err
	}
	updated, err := s.grants.UpdateGrant(ctx, bestieID, m.WeddingID, grant)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageFailure("grant.update", err)
	}

	configslog.Log.Info("inviter access updated",
		zap.String("wedding_id", m.WeddingID.String()),
		configslog.UserID("bestie_id", bestieID),
		zap.Bool("can_read", grant.CanRead),
		zap.Bool("can_edit", grant.CanEdit))
	return s.view(ctx, m, updated)
}

func (s *BestiePermissionService) view(ctx context.Context, m *models.Membership, grant *models.BestiePermission) (*BestiePermissionsView, error) {
	items, err := s.knowledge.ListByBestie(ctx, m.UserID, m.WeddingID, true)
	if err != nil {
		return nil, storageFailure("knowledge.list", err)
	}
	g := grant.Grant()
	stored := m.Permissions.Data()
	return &BestiePermissionsView{
		InviterUserID:  grant.InviterUserID,
		InviterAccess:  permissions.BestieKnowledgeFor(&g),
		WeddingProfile: permissions.WeddingProfileFor(m.Role, &stored),
		Stats:          permissions.Stats(items, &g),
	}, nil
}
