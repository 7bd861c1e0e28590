// Package commands contains the operations that move a locker order through
// its lifecycle. Every command follows the same pattern: validate the command,
// run the domain transition inside a unit of work, commit, then fire the
// side effects (notifications, points, delivery timers) that must never roll
// back a committed transition.
package commands

import (
	"context"

	"lockers/internal/core/application/notify"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// LockerRepoFactory provides access to locker repository within a transaction.
	LockerRepoFactory interface {
		LockerRepository() ports.LockerRepository
	}

	// ListingRepoFactory provides access to listing repository within a transaction.
	ListingRepoFactory interface {
		ListingRepository() ports.ListingRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions across orders, lockers and listings.
	// Handlers lock the listing before the locker and write the order last.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   lst, err := uow.ListingRepository().GetForUpdate(ctx, listingID)
	//   lck, err := uow.LockerRepository().GetForUpdate(ctx, lockerID)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		LockerRepoFactory
		ListingRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// EventSender publishes lifecycle events to users after a commit.
type EventSender interface {
	Send(ctx context.Context, e notify.Event, recipients ...kernel.UUID)
}
