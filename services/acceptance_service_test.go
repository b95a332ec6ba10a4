package services

import (
	"sync"
	"testing"

	"bridebuddy.app/models"
	"bridebuddy.app/testutil"

	"github.com/google/uuid"
)

func TestAcceptPartnerInvite(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, f.owner, models.RolePartner)
	partner := uuid.New()

	out := f.accept(t, issued.Token, partner)
	if out.Role != models.RolePartner || out.WeddingProfile != (models.Permissions{CanRead: true, CanEdit: true}) {
		t.Fatalf("outcome: got %+v", out)
	}
	if out.InviterAccess != nil || len(out.Warnings) != 0 {
		t.Fatalf("outcome: unexpected bestie fields %+v", out)
	}
	if out.Wedding == nil || out.Wedding.ID != f.wedding.ID {
		t.Fatalf("outcome wedding: got %+v", out.Wedding)
	}

	m, err := f.reg.Ledger.ForUser(f.ctx, partner)
	if err != nil || m.Role != models.RolePartner || m.WeddingID != f.wedding.ID {
		t.Fatalf("membership: got %+v err=%v", m, err)
	}
	if m.InvitedBy == nil || *m.InvitedBy != f.owner {
		t.Fatalf("partner invited_by: want=%s got=%v", f.owner, m.InvitedBy)
	}

	var stored models.Invite
	f.db.Where("id = ?", issued.Invite.ID).First(&stored)
	if !stored.Used || stored.UsedBy == nil || *stored.UsedBy != partner || stored.UsedAt == nil {
		t.Fatalf("invite not consumed: %+v", stored)
	}
}

func TestAcceptBestieInvite(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, f.owner, models.RoleBestie)
	bestie := uuid.New()

	out := f.accept(t, issued.Token, bestie)
	if out.WeddingProfile != (models.Permissions{CanRead: true, CanEdit: false}) {
		t.Fatalf("wedding profile: want read-only got %+v", out.WeddingProfile)
	}
	if out.InviterAccess == nil || *out.InviterAccess != (models.Permissions{}) {
		t.Fatalf("inviter access: want none got %+v", out.InviterAccess)
	}
	if out.RedirectTo != "/bestie.html" || len(out.NextSteps) == 0 {
		t.Fatalf("bestie outcome: got %+v", out)
	}

	var grant models.BestiePermission
	if err := f.db.Where("bestie_user_id = ?", bestie).First(&grant).Error; err != nil {
		t.Fatalf("grant: %v", err)
	}
	if grant.InviterUserID != f.owner || grant.CanRead || grant.CanEdit {
		t.Fatalf("grant: want {false,false} from owner got %+v", grant)
	}

	var profile models.BestieProfile
	if err := f.db.Where("bestie_user_id = ?", bestie).First(&profile).Error; err != nil {
		t.Fatalf("bestie profile: %v", err)
	}

	m, _ := f.reg.Ledger.ForUser(f.ctx, bestie)
	if m.InvitedBy == nil || *m.InvitedBy != f.owner {
		t.Fatalf("membership invited_by: got %v", m.InvitedBy)
	}
}

func TestAcceptRejectsUnauthenticated(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, f.owner, models.RolePartner)

	for _, bearer := range []string{"", "Bearer nope"} {
		_, err := f.reg.Acceptance.Accept(f.ctx, issued.Token, bearer)
		wantKind(t, err, ErrUnauthenticated)
	}
	if _, err := f.reg.Invites.Lookup(f.ctx, issued.Token); err != nil {
		t.Fatalf("invite should still be pending: %v", err)
	}
}

func TestAcceptUnknownAndExpired(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, f.owner, models.RolePartner)

	_, err := f.reg.Acceptance.Accept(f.ctx, "not-a-token", testutil.Bearer(uuid.New()))
	wantKind(t, err, ErrNotFound)

	f.clock.Advance(testTTL)
	_, err = f.reg.Acceptance.Accept(f.ctx, issued.Token, testutil.Bearer(uuid.New()))
	wantKind(t, err, ErrExpired)
	if n := f.countMembers(t); n != 1 {
		t.Fatalf("members: want=1 got=%d", n)
	}
}

func TestAcceptTwiceIsAlreadyUsed(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, f.owner, models.RolePartner)
	f.accept(t, issued.Token, uuid.New())

	_, err := f.reg.Acceptance.Accept(f.ctx, issued.Token, testutil.Bearer(uuid.New()))
	wantKind(t, err, ErrAlreadyUsed)
}

func TestAcceptByExistingMemberChangesNothing(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, f.owner, models.RolePartner)

	_, err := f.reg.Acceptance.Accept(f.ctx, issued.Token, testutil.Bearer(f.owner))
	wantKind(t, err, ErrAlreadyMember)

	if n := f.countMembers(t); n != 1 {
		t.Fatalf("members: want=1 got=%d", n)
	}
	if _, err := f.reg.Invites.Lookup(f.ctx, issued.Token); err != nil {
		t.Fatalf("invite should still be pending: %v", err)
	}
	m, _ := f.reg.Ledger.ForUser(f.ctx, f.owner)
	if m.Role != models.RoleOwner {
		t.Fatalf("owner role changed to %s", m.Role)
	}
}

func TestAcceptSecondBestieForSameInviter(t *testing.T) {
	f := newFixture(t)
	f.accept(t, f.issue(t, f.owner, models.RoleBestie).Token, uuid.New())

	token := f.rawInvite(t, f.owner, models.RoleBestie)
	_, err := f.reg.Acceptance.Accept(f.ctx, token, testutil.Bearer(uuid.New()))
	wantKind(t, err, ErrCardinalityExceeded)

	if _, err := f.reg.Invites.Lookup(f.ctx, token); err != nil {
		t.Fatalf("rejected acceptance must not consume the invite: %v", err)
	}
	if n := f.countMembers(t); n != 2 {
		t.Fatalf("members: want=2 got=%d", n)
	}
}

func TestAcceptSecondPartner(t *testing.T) {
	f := newFixture(t)
	f.addPartner(t)

	token := f.rawInvite(t, f.owner, models.RolePartner)
	_, err := f.reg.Acceptance.Accept(f.ctx, token, testutil.Bearer(uuid.New()))
	wantKind(t, err, ErrCardinalityExceeded)
}

func TestAcceptReportsSecondaryFailuresAsWarnings(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, f.owner, models.RoleBestie)
	if err := f.db.Migrator().DropTable(&models.BestieProfile{}); err != nil {
		t.Fatalf("drop bestie_profiles: %v", err)
	}

	bestie := uuid.New()
	out := f.accept(t, issued.Token, bestie)
	if len(out.Warnings) != 1 || out.Warnings[0] != WarningBestieProfile {
		t.Fatalf("warnings: want [%s] got %v", WarningBestieProfile, out.Warnings)
	}
	if _, err := f.reg.Ledger.ForUser(f.ctx, bestie); err != nil {
		t.Fatalf("membership must survive a secondary failure: %v", err)
	}
}

func TestAcceptConcurrentRedemption(t *testing.T) {
	f := newFixture(t)
	issued := f.issue(t, f.owner, models.RolePartner)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.reg.Acceptance.Accept(f.ctx, issued.Token, testutil.Bearer(uuid.New()))
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
		case !isKind(err, ErrAlreadyUsed):
			t.Fatalf("caller %d: want success or ErrAlreadyUsed, got %v", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners: want=1 got=%d", wins)
	}
	if n := f.countMembers(t); n != 2 {
		t.Fatalf("members: want=2 got=%d", n)
	}
}

func TestAcceptConcurrentBestieRedemptions(t *testing.T) {
	f := newFixture(t)
	partner := f.addPartner(t)
	inviters := []uuid.UUID{f.owner, f.owner, partner, partner}
	raw := make([]string, len(inviters))
	for i, inviter := range inviters {
		raw[i] = f.rawInvite(t, inviter, models.RoleBestie)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(raw))
	for i := range raw {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.reg.Acceptance.Accept(f.ctx, raw[i], testutil.Bearer(uuid.New()))
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
		case !isKind(err, ErrCardinalityExceeded):
			t.Fatalf("caller %d: want success or ErrCardinalityExceeded, got %v", i, err)
		}
	}
	if wins != 2 {
		t.Fatalf("winners: want=2 got=%d", wins)
	}

	var besties int64
	f.db.Model(&models.Membership{}).Where("wedding_id = ? AND role = ?", f.wedding.ID, models.RoleBestie).Count(&besties)
	if besties > int64(models.RoleBestie.Slots()) {
		t.Fatalf("besties: want<=%d got=%d", models.RoleBestie.Slots(), besties)
	}
	for _, inviter := range []uuid.UUID{f.owner, partner} {
		var n int64
		f.db.Model(&models.Membership{}).Where("role = ? AND invited_by = ?", models.RoleBestie, inviter).Count(&n)
		if n != 1 {
			t.Fatalf("besties sponsored by %s: want=1 got=%d", inviter, n)
		}
	}

	// losers roll back entirely, including the invite claim
	var used int64
	f.db.Model(&models.Invite{}).Where("role = ? AND used = ?", models.RoleBestie, true).Count(&used)
	if used != 2 {
		t.Fatalf("claimed bestie invites: want=2 got=%d", used)
	}
}

func isKind(err error, kind ServiceError) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
