package ports

import (
	"context"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/listing"
)

// ListingRepository reads and writes the slice of a marketplace listing the
// order engine owns.
type ListingRepository interface {
	Add(ctx context.Context, aggregate *listing.Listing) error
	Update(ctx context.Context, aggregate *listing.Listing) error
	Get(ctx context.Context, id kernel.UUID) (*listing.Listing, error)

	// GetForUpdate loads the listing under a row lock held until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*listing.Listing, error)
}
