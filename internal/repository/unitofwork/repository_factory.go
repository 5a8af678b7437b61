package unitofwork

import "context"

// RepositoryFactory hands out a fresh UnitOfWork per request. Services
// hold the factory, never a UnitOfWork, so transactions stay scoped to
// a single operation.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
