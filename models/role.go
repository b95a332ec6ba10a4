package models

// Role is a member's role within a wedding.
type Role string

const (
	RoleOwner   Role = "owner"
	RolePartner Role = "partner"
	RoleBestie  Role = "bestie"
)

// Valid reports whether r is one of the three sanctioned roles. Legacy
// "member" and "co_planner" values are not accepted.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RolePartner, RoleBestie:
		return true
	}
	return false
}

// Slots is the per-wedding cardinality of the role. Memberships occupy a slot in
// [1, Slots()] and the store keeps (wedding_id, role, slot) unique.
func (r Role) Slots() int {
	switch r {
	case RoleOwner, RolePartner:
		return 1
	case RoleBestie:
		return 2
	}
	return 0
}

// CanInvite reports whether a member with this role may issue invites.
func (r Role) CanInvite() bool {
	return r == RoleOwner || r == RolePartner
}

// DisplayName is the label shown on invite pages.
func (r Role) DisplayName() string {
	switch r {
	case RoleOwner:
		return "Owner"
	case RolePartner:
		return "Partner"
	case RoleBestie:
		return "Bestie (MOH/Best Man)"
	}
	return "Wedding Team Member"
}

// Permissions is a {can_read, can_edit} pair, persisted as permissions_json.
type Permissions struct {
	CanRead bool `json:"can_read"`
	CanEdit bool `json:"can_edit"`
}
