package services

import (
	portsrepo "github.com/SscSPs/accounting_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/accounting_core/internal/core/ports/services"
	"github.com/SscSPs/accounting_core/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		User: NewUserService(repos.UserRepo),
		Journal: NewJournalService(
			repos.JournalRepo,
			repos.AccountRepo,
			repos.AuditLogRepo,
			WithEntryNumberPrefix(cfg.JournalNumberPrefix),
			WithPageSizes(cfg.JournalDefaultPageSize, cfg.JournalMaxPageSize),
		),
	}
}
