package services

import (
	"context"
	"errors"
	"strings"

	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/models"
	"bridebuddy.app/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IPendingUpdateService proposal and review of wedding profile changes.
type IPendingUpdateService interface {
	Propose(ctx context.Context, userID uuid.UUID, field, value string) (*models.PendingUpdate, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.PendingUpdate, error)
	Decide(ctx context.Context, userID, updateID uuid.UUID, approve bool) (*models.PendingUpdate, error)
}

// PendingUpdateService implements IPendingUpdateService.
type PendingUpdateService struct {
	db      *gorm.DB
	ledger  IMembershipLedger
	updates repositories.IPendingUpdateRepository
	now     Clock
}

var _ IPendingUpdateService = (*PendingUpdateService)(nil)

func NewPendingUpdateService(db *gorm.DB, ledger IMembershipLedger, now Clock) IPendingUpdateService {
	return &PendingUpdateService{
		db:      db,
		ledger:  ledger,
		updates: repositories.NewPendingUpdateRepository(db),
		now:     now.orDefault(),
	}
}

// Propose records a change any member may suggest. The value is validated now
// so approval cannot fail on bad input.
func (s *PendingUpdateService) Propose(ctx context.Context, userID uuid.UUID, field, value string) (*models.PendingUpdate, error) {
	field = strings.TrimSpace(field)
	if _, err := normalizeField(field, value); err != nil {
		return nil, err
	}
	m, err := s.ledger.ForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, withReason(ErrNotAuthorized, "not_authorized", "you must belong to a wedding to propose changes")
		}
		return nil, err
	}
	update := &models.PendingUpdate{
		WeddingID:  m.WeddingID,
		ProposedBy: userID,
		FieldName:  field,
		NewValue:   value,
		Status:     models.UpdateStatusPending,
	}
	if err := s.updates.Create(ctx, update); err != nil {
		return nil, storageFailure("update.create", err)
	}
	return update, nil
}

func (s *PendingUpdateService) requireApprover(ctx context.Context, userID uuid.UUID) (*models.Membership, error) {
	m, err := s.ledger.ForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, withReason(ErrNotAuthorized, "not_authorized", "only the owner or partner can review updates")
		}
		return nil, err
	}
	if !m.Role.CanInvite() {
		return nil, withReason(ErrNotAuthorized, "not_authorized", "only the owner or partner can review updates")
	}
	return m, nil
}

func (s *PendingUpdateService) List(ctx context.Context, userID uuid.UUID) ([]models.PendingUpdate, error) {
	m, err := s.requireApprover(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.updates.ListByWedding(ctx, m.WeddingID, models.UpdateStatusPending)
	if err != nil {
		return nil, storageFailure("update.list", err)
	}
	return list, nil
}

// Decide approves or rejects. Approval writes the field and the status in one
// transaction.
func (s *PendingUpdateService) Decide(ctx context.Context, userID, updateID uuid.UUID, approve bool) (*models.PendingUpdate, error) {
	m, err := s.requireApprover(ctx, userID)
	if err != nil {
		return nil, err
	}
	update, err := s.updates.FindByID(ctx, updateID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageFailure("update.find", err)
	}
	if update.WeddingID != m.WeddingID {
		return nil, ErrNotFound
	}

	status := models.UpdateStatusRejected
	if approve {
		status = models.UpdateStatusApproved
	}
	now := s.now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		decided, err := repositories.NewPendingUpdateRepositoryTx(tx).Decide(ctx, update.ID, status, userID, now)
		if err != nil {
			return err
		}
		if !decided {
			return withReason(ErrInvalidInput, "already_decided", "this update has already been decided")
		}
		if !approve {
			return nil
		}
		value, err := normalizeField(update.FieldName, update.NewValue)
		if err != nil {
			return err
		}
		return repositories.NewWeddingRepositoryTx(tx).UpdateFields(ctx, update.WeddingID, map[string]interface{}{update.FieldName: value})
	})
	if err != nil {
		return nil, passThrough("update.decide", err)
	}

	update.Status = status
	update.DecidedBy = &userID
	update.DecidedAt = &now
	configslog.Log.Info("pending update decided",
		zap.String("update_id", update.ID.String()),
		zap.String("status", string(status)),
		configslog.UserID("decided_by", userID))
	return update, nil
}
