package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bridebuddy.app/models"
	"bridebuddy.app/pkg/tokens"
	"bridebuddy.app/testutil"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const testTTL = 7 * 24 * time.Hour

var testCtx = context.Background()

type fixture struct {
	ctx     context.Context
	db      *gorm.DB
	clock   *testutil.Clock
	reg     *Registry
	owner   uuid.UUID
	wedding *models.Wedding
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	clock := testutil.NewClock()
	reg := NewRegistry(db, testutil.FakeIdentity{}, InviteConfig{
		TTL:           testTTL,
		PublicBaseURL: "https://app.example.test",
		AcceptPath:    "/accept-invite.html",
		Now:           clock.Now,
	})
	owner := uuid.New()
	return &fixture{
		ctx:     context.Background(),
		db:      db,
		clock:   clock,
		reg:     reg,
		owner:   owner,
		wedding: testutil.SeedWedding(t, db, owner),
	}
}

// issue issues an invite or fails the test.
func (f *fixture) issue(t *testing.T, creator uuid.UUID, role models.Role) *IssuedInvite {
	t.Helper()
	issued, err := f.reg.Invites.IssueInvite(f.ctx, creator, role, nil)
	if err != nil {
		t.Fatalf("IssueInvite(%s): %v", role, err)
	}
	return issued
}

// accept redeems token for user or fails the test.
func (f *fixture) accept(t *testing.T, token string, user uuid.UUID) *AcceptOutcome {
	t.Helper()
	out, err := f.reg.Acceptance.Accept(f.ctx, token, testutil.Bearer(user))
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	return out
}

// addPartner joins a partner through the normal invite flow.
func (f *fixture) addPartner(t *testing.T) uuid.UUID {
	t.Helper()
	partner := uuid.New()
	f.accept(t, f.issue(t, f.owner, models.RolePartner).Token, partner)
	return partner
}

// rawInvite inserts an invite directly, bypassing issuance checks.
func (f *fixture) rawInvite(t *testing.T, creator uuid.UUID, role models.Role) string {
	t.Helper()
	token, err := tokens.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	digest, _ := tokens.Digest(token)
	inv := &models.Invite{
		TokenDigest: digest,
		WeddingID:   f.wedding.ID,
		Role:        role,
		CreatedBy:   creator,
		Permissions: datatypes.NewJSONType(models.Permissions{CanRead: true}),
	}
	if err := f.db.Create(inv).Error; err != nil {
		t.Fatalf("insert invite: %v", err)
	}
	return token
}

func (f *fixture) countMembers(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&models.Membership{}).Where("wedding_id = ?", f.wedding.ID).Count(&n).Error; err != nil {
		t.Fatalf("count members: %v", err)
	}
	return n
}

func wantKind(t *testing.T, err error, want ServiceError) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("want=%q got=%v", want, err)
	}
}
