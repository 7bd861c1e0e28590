package locker_test

import (
	"testing"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/core/domain/model/locker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompartment(t *testing.T) {
	c, err := locker.NewCompartment(kernel.NewUUID(), 1)
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.False(t, c.IsOccupied())
	assert.Nil(t, c.OrderID())

	_, err = locker.NewCompartment(kernel.UUID{}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UUID must be created")
	assert.Contains(t, err.Error(), "0 is not greater than 0")

	var zero *locker.Compartment
	assert.ErrorIs(t, zero.Validate(), locker.ErrCompartmentIsNotConstructed)
}

func TestRestoreCompartment_Holds(t *testing.T) {
	orderID := kernel.NewUUID()
	c, err := locker.RestoreCompartment(kernel.NewUUID(), 5, &orderID)
	require.NoError(t, err)

	assert.True(t, c.IsOccupied())
	assert.True(t, c.Holds(orderID))
	assert.False(t, c.Holds(kernel.NewUUID()))
	assert.Equal(t, 5, c.Number())
}
