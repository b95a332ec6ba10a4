package services

import (
	"context"
	"errors"
	"strings"

	"bridebuddy.app/models"
	"bridebuddy.app/pkg/permissions"
	"bridebuddy.app/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxKnowledgeContent = 4000

// KnowledgeInput creates or edits a planning item. IsPrivate is ignored for
// inviter edits.
type KnowledgeInput struct {
	Category  string `json:"category"`
	Content   string `json:"content"`
	IsPrivate *bool  `json:"is_private"`
}

// IBestieKnowledgeService manages besties' planning items.
type IBestieKnowledgeService interface {
	Add(ctx context.Context, bestieID uuid.UUID, in KnowledgeInput) (*models.BestieKnowledge, error)
	ListOwn(ctx context.Context, bestieID uuid.UUID) ([]models.BestieKnowledge, error)
	// ListShared is the inviter's view, filtered by the grant.
	ListShared(ctx context.Context, inviterID uuid.UUID) ([]models.BestieKnowledge, error)
	Edit(ctx context.Context, userID, itemID uuid.UUID, in KnowledgeInput) (*models.BestieKnowledge, error)
}

// BestieKnowledgeService implements IBestieKnowledgeService.
type BestieKnowledgeService struct {
	ledger    IMembershipLedger
	grants    repositories.IBestiePermissionRepository
	knowledge repositories.IBestieKnowledgeRepository
	now       Clock
}

var _ IBestieKnowledgeService = (*BestieKnowledgeService)(nil)

func NewBestieKnowledgeService(db *gorm.DB, ledger IMembershipLedger, now Clock) IBestieKnowledgeService {
	return &BestieKnowledgeService{
		ledger:    ledger,
		grants:    repositories.NewBestiePermissionRepository(db),
		knowledge: repositories.NewBestieKnowledgeRepository(db),
		now:       now.orDefault(),
	}
}

func validateKnowledge(in KnowledgeInput) (KnowledgeInput, error) {
	in.Content = strings.TrimSpace(in.Content)
	in.Category = strings.TrimSpace(in.Category)
	if in.Content == "" {
		return in, withReason(ErrInvalidInput, "invalid_input", "content is required")
	}
	if len(in.Content) > maxKnowledgeContent {
		return in, withReason(ErrInvalidInput, "invalid_input", "content is too long")
	}
	if len(in.Category) > 50 {
		return in, withReason(ErrInvalidInput, "invalid_input", "category is too long")
	}
	return in, nil
}

func (s *BestieKnowledgeService) Add(ctx context.Context, bestieID uuid.UUID, in KnowledgeInput) (*models.BestieKnowledge, error) {
	in, err := validateKnowledge(in)
	if err != nil {
		return nil, err
	}
	m, err := requireBestie(ctx, s.ledger, bestieID)
	if err != nil {
		return nil, err
	}
	item := &models.BestieKnowledge{
		BestieUserID: bestieID,
		WeddingID:    m.WeddingID,
		Category:     in.Category,
		Content:      in.Content,
		IsPrivate:    in.IsPrivate != nil && *in.IsPrivate,
	}
	if err := s.knowledge.Create(ctx, item); err != nil {
		return nil, storageFailure("knowledge.create", err)
	}
	return item, nil
}

func (s *BestieKnowledgeService) ListOwn(ctx context.Context, bestieID uuid.UUID) ([]models.BestieKnowledge, error) {
	m, err := requireBestie(ctx, s.ledger, bestieID)
	if err != nil {
		return nil, err
	}
	items, err := s.knowledge.ListByBestie(ctx, bestieID, m.WeddingID, true)
	if err != nil {
		return nil, storageFailure("knowledge.list", err)
	}
	return items, nil
}

func (s *BestieKnowledgeService) ListShared(ctx context.Context, inviterID uuid.UUID) ([]models.BestieKnowledge, error) {
	m, err := s.ledger.ForUser(ctx, inviterID)
	if err != nil {
		return nil, err
	}
	// An inviter sponsors at most one bestie, so at most one grant names them.
	row, err := s.grants.FindByInviter(ctx, inviterID, m.WeddingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, withReason(ErrNotFound, "not_found", "you have no bestie")
		}
		return nil, storageFailure("grant.find", err)
	}
	g := row.Grant()
	grant := &g
	if !permissions.BestieKnowledgeFor(grant).CanRead {
		return nil, withReason(ErrNotAuthorized, "not_authorized", "your bestie has not shared their planning data")
	}

	items, err := s.knowledge.ListByBestie(ctx, row.BestieUserID, m.WeddingID, false)
	if err != nil {
		return nil, storageFailure("knowledge.list", err)
	}
	visible := items[:0]
	for i := range items {
		if permissions.VisibleToInviter(&items[i], grant) {
			visible = append(visible, items[i])
		}
	}
	return visible, nil
}

// inviterGrant returns the grant the bestie gave inviterID, or nil when the
// bestie was invited by someone else.
func (s *BestieKnowledgeService) inviterGrant(ctx context.Context, bestieID, weddingID, inviterID uuid.UUID) (*models.Permissions, error) {
	row, err := s.grants.FindByBestie(ctx, bestieID, weddingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, storageFailure("grant.find", err)
	}
	if row.InviterUserID != inviterID {
		return nil, nil
	}
	g := row.Grant()
	return &g, nil
}

// Edit lets the bestie change any of their items and the inviter change shared
// items when granted can_edit.
func (s *BestieKnowledgeService) Edit(ctx context.Context, userID, itemID uuid.UUID, in KnowledgeInput) (*models.BestieKnowledge, error) {
	in, err := validateKnowledge(in)
	if err != nil {
		return nil, err
	}
	item, err := s.knowledge.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageFailure("knowledge.find", err)
	}

	if item.BestieUserID != userID {
		grant, err := s.inviterGrant(ctx, item.BestieUserID, item.WeddingID, userID)
		if err != nil {
			return nil, err
		}
		if !permissions.VisibleToInviter(item, grant) {
			// Do not reveal that the item exists.
			return nil, ErrNotFound
		}
		if !permissions.EditableByInviter(item, grant) {
			return nil, withReason(ErrNotAuthorized, "not_authorized", "your bestie has not granted edit access")
		}
		in.IsPrivate = nil
	}

	now := s.now()
	item.Category = in.Category
	item.Content = in.Content
	if in.IsPrivate != nil {
		item.IsPrivate = *in.IsPrivate
	}
	item.UpdatedBy = &userID
	item.EditedAt = &now
	if err := s.knowledge.Update(ctx, item); err != nil {
		return nil, storageFailure("knowledge.update", err)
	}
	return item, nil
}
