// Package permissions derives effective permissions from roles and grants.
//
// Two directions are resolved independently:
//
//   - wedding profile access of a member, fixed by role (owner and partner read
//     and write, besties read only; stored values are historical only);
//   - an inviter's access to their bestie's private planning data, governed
//     solely by the grant the bestie controls. Items the bestie flagged private
//     are never visible to the inviter.
package permissions

import (
	"errors"

	"bridebuddy.app/models"
)

// ErrEditWithoutRead is returned for the invalid {can_read:false, can_edit:true} pair.
var ErrEditWithoutRead = errors.New("cannot grant edit access without read access")

var (
	full     = models.Permissions{CanRead: true, CanEdit: true}
	readOnly = models.Permissions{CanRead: true, CanEdit: false}
	none     = models.Permissions{}
)

// WeddingProfileFor resolves a member's wedding profile permissions. The stored
// value is accepted for symmetry with the persisted row but never widens or
// narrows the role default.
func WeddingProfileFor(role models.Role, _ *models.Permissions) models.Permissions {
	switch role {
	case models.RoleOwner, models.RolePartner:
		return full
	case models.RoleBestie:
		return readOnly
	default:
		return none
	}
}

// BestieKnowledgeFor resolves what an inviter may do with their bestie's
// planning data. A missing grant means no access.
func BestieKnowledgeFor(grant *models.Permissions) models.Permissions {
	if grant == nil {
		return none
	}
	if grant.CanEdit && !grant.CanRead {
		return none
	}
	return *grant
}

// DefaultBestieGrant is the grant created when a bestie joins.
func DefaultBestieGrant() models.Permissions {
	return none
}

// ValidateGrant rejects edit without read.
func ValidateGrant(p models.Permissions) error {
	if p.CanEdit && !p.CanRead {
		return ErrEditWithoutRead
	}
	return nil
}

// VisibleToInviter reports whether the inviter may read a knowledge item.
func VisibleToInviter(item *models.BestieKnowledge, grant *models.Permissions) bool {
	if item == nil || item.IsPrivate {
		return false
	}
	return BestieKnowledgeFor(grant).CanRead
}

// EditableByInviter reports whether the inviter may edit a knowledge item.
func EditableByInviter(item *models.BestieKnowledge, grant *models.Permissions) bool {
	if item == nil || item.IsPrivate {
		return false
	}
	return BestieKnowledgeFor(grant).CanEdit
}

// KnowledgeStats summarises what a grant exposes of a bestie's items.
type KnowledgeStats struct {
	TotalItems        int `json:"total_items"`
	PrivateItems      int `json:"private_items"`
	SharedItems       int `json:"shared_items"`
	VisibleToInviter  int `json:"visible_to_inviter"`
	EditableByInviter int `json:"editable_by_inviter"`
}

// Stats counts items by visibility under the given grant.
func Stats(items []models.BestieKnowledge, grant *models.Permissions) KnowledgeStats {
	var s KnowledgeStats
	for i := range items {
		s.TotalItems++
		if items[i].IsPrivate {
			s.PrivateItems++
			continue
		}
		s.SharedItems++
		if VisibleToInviter(&items[i], grant) {
			s.VisibleToInviter++
		}
		if EditableByInviter(&items[i], grant) {
			s.EditableByInviter++
		}
	}
	return s
}
