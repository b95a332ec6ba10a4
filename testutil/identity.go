package testutil

import (
	"context"
	"strings"

	"bridebuddy.app/pkg/identity"

	"github.com/google/uuid"
)

// FakeIdentity accepts "Bearer <uuid>" and treats the uuid as the caller.
type FakeIdentity struct{}

var _ identity.IIdentityProvider = FakeIdentity{}

func (FakeIdentity) Verify(_ context.Context, bearer string) (identity.Identity, error) {
	id, err := uuid.Parse(strings.TrimSpace(strings.TrimPrefix(bearer, "Bearer ")))
	if err != nil || id == uuid.Nil {
		return identity.Identity{}, identity.ErrUnauthenticated
	}
	return identity.Identity{UserID: id, Email: id.String()[:8] + "@example.test"}, nil
}

// Bearer builds an Authorization header value FakeIdentity accepts.
func Bearer(id uuid.UUID) string {
	return "Bearer " + id.String()
}
