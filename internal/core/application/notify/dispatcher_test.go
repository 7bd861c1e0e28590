package notify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"lockers/internal/core/application/notify"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_Send_DualChannel(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	buyer, seller := kernel.NewUUID(), kernel.NewUUID()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.Anything).Return(nil).Times(4)

	d := notify.NewDispatcher(notifier, discardLogger())
	d.Send(ctx, notify.Event{
		Type:    notify.TypePaymentReceived,
		OrderID: orderID,
		Title:   "Payment received",
		Message: "The buyer has paid.",
	}, buyer, seller)

	notifier.AssertExpectations(t)
	require.Len(t, notifier.Calls, 4)

	sent := make([]ports.Notification, 0, 4)
	for _, c := range notifier.Calls {
		sent = append(sent, c.Arguments.Get(1).(ports.Notification))
	}
	assert.Equal(t, ports.ChannelLocker, sent[0].Channel)
	assert.Equal(t, "payment_received", sent[0].Type)
	assert.Equal(t, ports.ChannelGeneral, sent[1].Channel)
	assert.Equal(t, "locker_payment_received", sent[1].Type)
	assert.True(t, sent[2].UserID.IsEqual(seller))
	assert.Equal(t,
		orderID.String()+":locker_payment_received:general:"+buyer.String(),
		sent[1].IdempotencyKey)
}

func TestDispatcher_Send_FailureIsSwallowed(t *testing.T) {
	ctx := t.Context()
	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.Anything).Return(errors.New("broker down")).Twice()

	d := notify.NewDispatcher(notifier, discardLogger())
	assert.NotPanics(t, func() {
		d.Send(ctx, notify.Event{Type: notify.TypePinExpired, OrderID: kernel.NewUUID()}, kernel.NewUUID())
	})
	notifier.AssertExpectations(t)
}
