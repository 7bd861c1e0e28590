package commands_test

import (
	"testing"
	"time"

	"lockers/internal/core/application/notify"
	"lockers/internal/core/application/usecases/commands"
	"lockers/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessPaymentCommandHandler_Handle_Deadline(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{name: "minute 29", elapsed: 29 * time.Minute},
		{name: "exactly at the deadline", elapsed: 30 * time.Minute},
		{name: "minute 31", elapsed: 31 * time.Minute, wantErr: order.ErrPaymentDeadlinePassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, 12)
			orderID, _ := e.reserve(t)
			e.clock.Advance(tt.elapsed)

			cmd, err := commands.NewProcessPaymentCommand(orderID, e.buyerID)
			require.NoError(t, err)
			err = e.pay.Handle(t.Context(), cmd)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, order.PendingPayment, e.order(t, orderID).Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, order.Paid, e.order(t, orderID).Status())
			assert.Equal(t, []string{notify.TypePaymentReceived}, e.notifier.SentTo(e.sellerID))
		})
	}
}

func TestProcessPaymentCommandHandler_Handle_OnlyBuyerPaysOnce(t *testing.T) {
	e := newEnv(t, 12)
	orderID, _ := e.reserve(t)

	bySeller, err := commands.NewProcessPaymentCommand(orderID, e.sellerID)
	require.NoError(t, err)
	require.ErrorIs(t, e.pay.Handle(t.Context(), bySeller), order.ErrNotOrderParticipant)

	e.payOrder(t, orderID)

	again, err := commands.NewProcessPaymentCommand(orderID, e.buyerID)
	require.NoError(t, err)
	require.ErrorIs(t, e.pay.Handle(t.Context(), again), order.ErrInvalidStatusTransition)
}

func TestSetPickupTimeCommandHandler_Handle(t *testing.T) {
	e := newEnv(t, 12)
	orderID, _ := e.reserve(t)

	early, err := commands.NewSetPickupTimeCommand(orderID, e.sellerID, startTime.Add(time.Hour))
	require.NoError(t, err)
	require.ErrorIs(t, e.schedule.Handle(t.Context(), early), order.ErrInvalidStatusTransition)

	e.payOrder(t, orderID)

	byBuyer, err := commands.NewSetPickupTimeCommand(orderID, e.buyerID, startTime.Add(time.Hour))
	require.NoError(t, err)
	require.ErrorIs(t, e.schedule.Handle(t.Context(), byBuyer), order.ErrNotOrderParticipant)

	e.schedulePickup(t, orderID)
	assert.Equal(t, order.PickupScheduled, e.order(t, orderID).Status())
	assert.Contains(t, e.notifier.SentTo(e.buyerID), notify.TypePickupScheduled)
}
