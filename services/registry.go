package services

import (
	"bridebuddy.app/pkg/identity"

	"gorm.io/gorm"
)

// Registry holds every service wired against one database handle.
type Registry struct {
	Identity          identity.IIdentityProvider
	Ledger            IMembershipLedger
	Invites           IInviteService
	Acceptance        IAcceptanceService
	Weddings          IWeddingService
	BestiePermissions IBestiePermissionService
	BestieKnowledge   IBestieKnowledgeService
	Updates           IPendingUpdateService
}

// NewRegistry builds the service graph. cfg.Now, when set, is shared by every
// service.
func NewRegistry(db *gorm.DB, idp identity.IIdentityProvider, cfg InviteConfig) *Registry {
	ledger := NewMembershipLedger(db)
	invites := NewInviteService(db, cfg)
	return &Registry{
		Identity:          idp,
		Ledger:            ledger,
		Invites:           invites,
		Acceptance:        NewAcceptanceService(db, idp, invites, ledger),
		Weddings:          NewWeddingService(db, ledger, cfg.Now),
		BestiePermissions: NewBestiePermissionService(db, ledger),
		BestieKnowledge:   NewBestieKnowledgeService(db, ledger, cfg.Now),
		Updates:           NewPendingUpdateService(db, ledger, cfg.Now),
	}
}
