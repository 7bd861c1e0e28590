package commands_test

import (
	"testing"
	"time"

	"lockers/internal/core/application/usecases/commands"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/order"
	"lockers/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	orderID, listingID, lockerID, buyerID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, listingID, lockerID, buyerID)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, listingID, cmd.ListingID())
	assert.Equal(t, lockerID, cmd.LockerID())
	assert.Equal(t, buyerID, cmd.BuyerID())
}

func TestNewCreateOrderCommand_InvalidIDs(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID())
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestCommands_ZeroValueIsRejected(t *testing.T) {
	assert.ErrorIs(t, commands.CreateOrderCommand{}.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
	assert.ErrorIs(t, commands.ProcessPaymentCommand{}.Validate(), commands.ErrProcessPaymentCommandIsNotConstructed)
	assert.ErrorIs(t, commands.SetPickupTimeCommand{}.Validate(), commands.ErrSetPickupTimeCommandIsNotConstructed)
	assert.ErrorIs(t, commands.ConfirmRiderPickupCommand{}.Validate(),
		commands.ErrConfirmRiderPickupCommandIsNotConstructed)
	assert.ErrorIs(t, commands.CompleteDeliveryCommand{}.Validate(),
		commands.ErrCompleteDeliveryCommandIsNotConstructed)
	assert.ErrorIs(t, commands.VerifyPinCommand{}.Validate(), commands.ErrVerifyPinCommandIsNotConstructed)
	assert.ErrorIs(t, commands.CancelOrderCommand{}.Validate(), commands.ErrCancelOrderCommandIsNotConstructed)
	assert.ErrorIs(t, commands.ExpireReservationsCommand{}.Validate(),
		commands.ErrExpireReservationsCommandIsNotConstructed)
	assert.ErrorIs(t, commands.ExpirePinsCommand{}.Validate(), commands.ErrExpirePinsCommandIsNotConstructed)
	assert.ErrorIs(t, commands.RequeuePendingDeliveriesCommand{}.Validate(),
		commands.ErrRequeuePendingDeliveriesCommandIsNotConstructed)
}

func TestNewSetPickupTimeCommand_RequiresTime(t *testing.T) {
	_, err := commands.NewSetPickupTimeCommand(kernel.NewUUID(), kernel.NewUUID(), time.Time{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewVerifyPinCommand_RequiresPin(t *testing.T) {
	_, err := commands.NewVerifyPinCommand(kernel.NewUUID(), kernel.NewUUID(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewCancelOrderCommand_Reason(t *testing.T) {
	_, err := commands.NewCancelOrderCommand(kernel.NewUUID(), kernel.NewUUID(), "")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	long := make([]rune, order.MaxCancelReasonLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = commands.NewCancelOrderCommand(kernel.NewUUID(), kernel.NewUUID(), string(long))
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	cmd, err := commands.NewCancelOrderCommand(kernel.NewUUID(), kernel.NewUUID(), "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, "changed my mind", cmd.Reason())
}
