package ports

import (
	"context"

	"lockers/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Points actions reported on collection.
const (
	ActionSold   = "sold"
	ActionBought = "bought"
)

// PointsAward asks the points service to credit a user for an action.
type PointsAward struct {
	UserID   kernel.UUID
	OrderID  kernel.UUID
	Action   string
	Quantity int

	// CO2Kg is set when the listing recorded a CO2 saving.
	CO2Kg *decimal.Decimal
}

// PointsAwarder is the external points/CO2 service. It returns the number of
// points it credited.
type PointsAwarder interface {
	Award(ctx context.Context, award PointsAward) (int, error)
}
