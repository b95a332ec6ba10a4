package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/models"
	"bridebuddy.app/pkg/permissions"
	"bridebuddy.app/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateWeddingInput is the onboarding form.
type CreateWeddingInput struct {
	WeddingName        string   `json:"wedding_name"`
	Partner1Name       string   `json:"partner1_name"`
	Partner2Name       string   `json:"partner2_name"`
	WeddingDate        string   `json:"wedding_date"`
	ExpectedGuestCount *int     `json:"expected_guest_count"`
	TotalBudget        *float64 `json:"total_budget"`
	WeddingStyle       string   `json:"wedding_style"`
}

// WeddingProfile is a wedding as seen by one member.
type WeddingProfile struct {
	Wedding     *models.Wedding    `json:"wedding"`
	Role        models.Role        `json:"role"`
	Permissions models.Permissions `json:"permissions"`
}

// IWeddingService wedding profile operations.
type IWeddingService interface {
	CreateWedding(ctx context.Context, userID uuid.UUID, in CreateWeddingInput) (*models.Wedding, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*WeddingProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch map[string]interface{}) (*WeddingProfile, error)
}

// WeddingService implements IWeddingService.
type WeddingService struct {
	db       *gorm.DB
	ledger   IMembershipLedger
	weddings repositories.IWeddingRepository
	now      Clock
}

var _ IWeddingService = (*WeddingService)(nil)

func NewWeddingService(db *gorm.DB, ledger IMembershipLedger, now Clock) IWeddingService {
	return &WeddingService{
		db:       db,
		ledger:   ledger,
		weddings: repositories.NewWeddingRepository(db),
		now:      now.orDefault(),
	}
}

// CreateWedding starts a trial wedding and seeds the caller as owner.
func (s *WeddingService) CreateWedding(ctx context.Context, userID uuid.UUID, in CreateWeddingInput) (*models.Wedding, error) {
	in.WeddingName = strings.TrimSpace(in.WeddingName)
	in.Partner1Name = strings.TrimSpace(in.Partner1Name)
	in.Partner2Name = strings.TrimSpace(in.Partner2Name)
	if in.Partner1Name == "" && in.WeddingName == "" {
		return nil, withReason(ErrInvalidInput, "invalid_input", "a wedding name or partner name is required")
	}

	if _, err := s.ledger.ForUser(ctx, userID); err == nil {
		return nil, withReason(ErrAlreadyMember, "already_member", "you already belong to a wedding")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.now()
	trialEnds := now.Add(models.TrialPeriod)
	wedding := &models.Wedding{
		OwnerID:            userID,
		WeddingName:        in.WeddingName,
		Partner1Name:       in.Partner1Name,
		Partner2Name:       in.Partner2Name,
		ExpectedGuestCount: in.ExpectedGuestCount,
		TotalBudget:        in.TotalBudget,
		WeddingStyle:       strings.TrimSpace(in.WeddingStyle),
		PlanType:           models.PlanTrial,
		SubscriptionStatus: models.SubscriptionStatusTrial,
		TrialEndsAt:        &trialEnds,
		BestieAddonEnabled: true,
	}
	if in.WeddingDate != "" {
		d, err := normalizeField("wedding_date", in.WeddingDate)
		if err != nil {
			return nil, err
		}
		if t, ok := d.(time.Time); ok {
			wedding.WeddingDate = &t
		}
	}
	if in.ExpectedGuestCount != nil && *in.ExpectedGuestCount < 0 {
		return nil, fmt.Errorf("%w: expected_guest_count must not be negative", ErrInvalidInput)
	}
	if in.TotalBudget != nil && *in.TotalBudget < 0 {
		return nil, fmt.Errorf("%w: total_budget must not be negative", ErrInvalidInput)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewWeddingRepositoryTx(tx).Create(ctx, wedding); err != nil {
			return err
		}
		_, err := s.ledger.WithTx(tx).SeedOwner(ctx, wedding.ID, userID)
		return err
	})
	if err != nil {
		return nil, passThrough("wedding.create", err)
	}

	configslog.Log.Info("wedding created",
		zap.String("wedding_id", wedding.ID.String()),
		configslog.UserID("owner_id", userID))
	return wedding, nil
}

func (s *WeddingService) profileFor(ctx context.Context, userID uuid.UUID) (*WeddingProfile, error) {
	m, err := s.ledger.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	w, err := s.weddings.FindByID(ctx, m.WeddingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageFailure("wedding.find", err)
	}
	stored := m.Permissions.Data()
	return &WeddingProfile{
		Wedding:     w,
		Role:        m.Role,
		Permissions: permissions.WeddingProfileFor(m.Role, &stored),
	}, nil
}

func (s *WeddingService) GetProfile(ctx context.Context, userID uuid.UUID) (*WeddingProfile, error) {
	p, err := s.profileFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.Permissions.CanRead {
		return nil, ErrNotAuthorized
	}
	return p, nil
}

// UpdateProfile applies a patch of whitelisted fields. Besties never hold
// can_edit and must propose changes instead.
func (s *WeddingService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch map[string]interface{}) (*WeddingProfile, error) {
	p, err := s.profileFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.Permissions.CanEdit {
		return nil, withReason(ErrNotAuthorized, "not_authorized", "your role cannot edit the wedding profile")
	}
	fields, err := normalizeFields(patch)
	if err != nil {
		return nil, err
	}
	if err := s.weddings.UpdateFields(ctx, p.Wedding.ID, fields); err != nil {
		return nil, storageFailure("wedding.update", err)
	}
	return s.profileFor(ctx, userID)
}
