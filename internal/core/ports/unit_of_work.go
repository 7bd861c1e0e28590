package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh UnitOfWork per command so concurrent
// handlers never share a transaction.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork spans one locker order transition: the order row plus the locker
// and listing rows it touches. Callers Begin, defer Rollback and Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit fails when no transaction is open.
	Commit(ctx context.Context) error

	// Rollback fails when no transaction is open.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	LockerRepository() LockerRepository
	ListingRepository() ListingRepository
}
