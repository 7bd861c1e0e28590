package commands

import (
	"context"
	"log/slog"

	"lockers/internal/core/ports"
)

// RequeuePendingDeliveriesCommandHandler arms a fresh delivery timer for every
// order left in transit. It runs once at boot, before the HTTP server accepts
// requests; the persisted status is the only source of truth for which timers
// should exist.
type RequeuePendingDeliveriesCommandHandler struct {
	uowFactory OrderUoWFactory
	scheduler  ports.DeliveryScheduler
	logger     *slog.Logger
}

func NewRequeuePendingDeliveriesCommandHandler(
	uowFactory OrderUoWFactory,
	scheduler ports.DeliveryScheduler,
	logger *slog.Logger,
) RequeuePendingDeliveriesCommandHandler {
	return RequeuePendingDeliveriesCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
		logger:     logger.With("component", "requeue-deliveries"),
	}
}

// Handle returns the number of timers armed.
func (h RequeuePendingDeliveriesCommandHandler) Handle(ctx context.Context, cmd RequeuePendingDeliveriesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ids, err := uow.OrderRepository().ListInTransit(ctx)
	if err != nil {
		return 0, err
	}
	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	for _, id := range ids {
		h.scheduler.Schedule(id)
	}
	h.logger.Info("delivery timers requeued", "count", len(ids))

	return len(ids), nil
}
