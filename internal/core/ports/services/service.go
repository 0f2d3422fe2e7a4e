package services

// ServiceContainer holds instances of all the application services.
// It is built once in main and handed to the handlers.
type ServiceContainer struct {
	User    UserSvcFacade
	Journal JournalSvcFacade
}
