package repositories_test

import (
	"context"
	"errors"
	"testing"

	"bridebuddy.app/models"
	"bridebuddy.app/repositories"
	"bridebuddy.app/testutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestMembershipSlotsAreUnique(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	owner := uuid.New()
	w := testutil.SeedWedding(t, db, owner)
	repo := repositories.NewMembershipRepository(db)

	err := repo.Create(ctx, &models.Membership{WeddingID: w.ID, UserID: uuid.New(), Role: models.RoleOwner, Slot: 1})
	if !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("second owner in slot 1: want ErrDuplicate got %v", err)
	}
	err = repo.Create(ctx, &models.Membership{WeddingID: w.ID, UserID: owner, Role: models.RolePartner, Slot: 1})
	if !errors.Is(err, repositories.ErrDuplicate) {
		t.Fatalf("same user twice: want ErrDuplicate got %v", err)
	}

	n, err := repo.CountByRole(ctx, w.ID, models.RoleOwner)
	if err != nil || n != 1 {
		t.Fatalf("CountByRole: want=1 got=%d err=%v", n, err)
	}
}

func TestMembershipCreateKeepsTransactionUsable(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	owner := uuid.New()
	w := testutil.SeedWedding(t, db, owner)
	partner := uuid.New()

	err := db.Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewMembershipRepositoryTx(tx)
		if err := repo.Create(ctx, &models.Membership{WeddingID: w.ID, UserID: uuid.New(), Role: models.RoleOwner, Slot: 1}); !repositories.IsUniqueViolation(err) {
			t.Fatalf("want unique violation got %v", err)
		}
		return repo.Create(ctx, &models.Membership{WeddingID: w.ID, UserID: partner, Role: models.RolePartner, Slot: 1})
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if _, err := repositories.NewMembershipRepository(db).FindByUserID(ctx, partner); err != nil {
		t.Fatalf("partner not committed: %v", err)
	}
}

func TestFindSponsoredBestie(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	owner := uuid.New()
	w := testutil.SeedWedding(t, db, owner)
	repo := repositories.NewMembershipRepository(db)

	if _, err := repo.FindSponsoredBestie(ctx, w.ID, owner); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("no bestie yet: want ErrNotFound got %v", err)
	}
	bestie := uuid.New()
	testutil.SeedMember(t, db, w.ID, bestie, models.RoleBestie, 1, testutil.PtrUUID(owner))

	m, err := repo.FindSponsoredBestie(ctx, w.ID, owner)
	if err != nil || m.UserID != bestie {
		t.Fatalf("FindSponsoredBestie: got %+v err=%v", m, err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", repositories.ErrDuplicate, true},
		{"gorm", gorm.ErrDuplicatedKey, true},
		{"postgres", &pgconn.PgError{Code: "23505"}, true},
		{"postgres fk", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite", errors.New("UNIQUE constraint failed: memberships.user_id"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, c := range cases {
		if got := repositories.IsUniqueViolation(c.err); got != c.want {
			t.Fatalf("%s: want=%v got=%v", c.name, c.want, got)
		}
	}
}
