package permissions

import (
	"testing"

	"bridebuddy.app/models"
)

func TestWeddingProfileForIgnoresStoredGrant(t *testing.T) {
	stored := &models.Permissions{CanRead: false, CanEdit: false}
	cases := []struct {
		role models.Role
		want models.Permissions
	}{
		{models.RoleOwner, models.Permissions{CanRead: true, CanEdit: true}},
		{models.RolePartner, models.Permissions{CanRead: true, CanEdit: true}},
		{models.RoleBestie, models.Permissions{CanRead: true, CanEdit: false}},
		{models.Role("co_planner"), models.Permissions{}},
	}
	for _, c := range cases {
		if got := WeddingProfileFor(c.role, stored); got != c.want {
			t.Fatalf("WeddingProfileFor(%s): want %+v got %+v", c.role, c.want, got)
		}
	}

	// besties never get write access, whatever was stored
	widened := &models.Permissions{CanRead: true, CanEdit: true}
	if got := WeddingProfileFor(models.RoleBestie, widened); got.CanEdit {
		t.Fatalf("WeddingProfileFor(bestie): edit must never be granted")
	}
}

func TestBestieKnowledgeFor(t *testing.T) {
	if got := BestieKnowledgeFor(nil); got != (models.Permissions{}) {
		t.Fatalf("nil grant: want none got %+v", got)
	}
	g := &models.Permissions{CanRead: true}
	if got := BestieKnowledgeFor(g); got != *g {
		t.Fatalf("read grant: want %+v got %+v", *g, got)
	}
	bad := &models.Permissions{CanEdit: true}
	if got := BestieKnowledgeFor(bad); got != (models.Permissions{}) {
		t.Fatalf("invalid grant: want none got %+v", got)
	}
}

func TestValidateGrant(t *testing.T) {
	if err := ValidateGrant(models.Permissions{CanEdit: true}); err != ErrEditWithoutRead {
		t.Fatalf("edit without read: want ErrEditWithoutRead got %v", err)
	}
	for _, p := range []models.Permissions{{}, {CanRead: true}, {CanRead: true, CanEdit: true}} {
		if err := ValidateGrant(p); err != nil {
			t.Fatalf("ValidateGrant(%+v): %v", p, err)
		}
	}
}

func TestPrivateItemsAreNeverDelegated(t *testing.T) {
	grant := &models.Permissions{CanRead: true, CanEdit: true}
	private := &models.BestieKnowledge{IsPrivate: true}
	shared := &models.BestieKnowledge{}

	if VisibleToInviter(private, grant) || EditableByInviter(private, grant) {
		t.Fatalf("private item exposed under full grant")
	}
	if !VisibleToInviter(shared, grant) || !EditableByInviter(shared, grant) {
		t.Fatalf("shared item hidden under full grant")
	}
	if VisibleToInviter(shared, nil) {
		t.Fatalf("shared item visible without grant")
	}
}

func TestStats(t *testing.T) {
	items := []models.BestieKnowledge{
		{Content: "venue", IsPrivate: false},
		{Content: "surprise", IsPrivate: true},
		{Content: "budget", IsPrivate: false},
	}
	s := Stats(items, &models.Permissions{CanRead: true})
	want := KnowledgeStats{TotalItems: 3, PrivateItems: 1, SharedItems: 2, VisibleToInviter: 2, EditableByInviter: 0}
	if s != want {
		t.Fatalf("Stats: want %+v got %+v", want, s)
	}
}
