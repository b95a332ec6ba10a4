package database_test

import (
	"testing"

	"bridebuddy.app/database"
	"bridebuddy.app/models"
	"bridebuddy.app/testutil"

	"github.com/google/uuid"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	owner := uuid.New()
	opts := database.Options{Seed: true, DemoOwnerID: owner}

	for i := 0; i < 2; i++ {
		if err := database.Initialize(db, opts); err != nil {
			t.Fatalf("Initialize run %d: %v", i, err)
		}
	}

	var weddings int64
	db.Model(&models.Wedding{}).Where("owner_id = ?", owner).Count(&weddings)
	if weddings != 1 {
		t.Fatalf("weddings: want=1 got=%d", weddings)
	}
	var m models.Membership
	if err := db.Where("user_id = ?", owner).First(&m).Error; err != nil {
		t.Fatalf("owner membership: %v", err)
	}
	if m.Role != models.RoleOwner || !m.Permissions.Data().CanEdit {
		t.Fatalf("owner membership: got role=%s perms=%+v", m.Role, m.Permissions.Data())
	}
}

func TestInitializeOptions(t *testing.T) {
	db := testutil.DB(t)
	if err := database.Initialize(db, database.Options{}); err != nil {
		t.Fatalf("no steps: %v", err)
	}
	if err := database.Initialize(db, database.Options{Seed: true}); err == nil {
		t.Fatalf("seed without owner: expected error")
	}
}
