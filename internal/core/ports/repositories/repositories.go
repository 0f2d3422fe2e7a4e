package repositories

// RepositoryProvider holds all repository interfaces needed by services.
type RepositoryProvider struct {
	AccountRepo  AccountReader
	UserRepo     UserRepositoryFacade
	JournalRepo  JournalRepositoryWithTx
	AuditLogRepo AuditLogRepositoryFacade
}
