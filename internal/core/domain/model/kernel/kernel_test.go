package kernel_test

import (
	"testing"

	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	t.Run("new UUIDs are valid and unique", func(t *testing.T) {
		id1 := kernel.NewUUID()
		id2 := kernel.NewUUID()

		require.NoError(t, id1.Validate())
		assert.False(t, id1.IsEqual(id2))
	})

	t.Run("parses textual form", func(t *testing.T) {
		id, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")

		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	t.Run("rejects malformed and nil strings", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")
		require.Error(t, err)

		_, err = kernel.UUIDFromString(uuid.Nil.String())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("round-trips through bytes", func(t *testing.T) {
		id := kernel.NewUUID()
		raw := id.Bytes()

		restored, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, restored.IsEqual(id))
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var id kernel.UUID
		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
	})
}

func TestCoordinates(t *testing.T) {
	t.Run("valid coordinates", func(t *testing.T) {
		c, err := kernel.NewCoordinates(52.52, 13.405)

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.InDelta(t, 52.52, c.Latitude(), 1e-9)
		assert.InDelta(t, 13.405, c.Longitude(), 1e-9)
	})

	t.Run("out of range values are joined", func(t *testing.T) {
		_, err := kernel.NewCoordinates(91, -181)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "latitude")
		assert.Contains(t, err.Error(), "longitude")
	})

	t.Run("distance between two points", func(t *testing.T) {
		berlin, _ := kernel.NewCoordinates(52.5200, 13.4050)
		potsdam, _ := kernel.NewCoordinates(52.3906, 13.0645)

		km, err := berlin.DistanceKm(potsdam)

		require.NoError(t, err)
		assert.InDelta(t, 27.2, km, 0.3)

		back, _ := potsdam.DistanceKm(berlin)
		assert.InDelta(t, km, back, 1e-9)
	})

	t.Run("distance to itself is zero", func(t *testing.T) {
		c, _ := kernel.NewCoordinates(10, 10)
		km, err := c.DistanceKm(c)

		require.NoError(t, err)
		assert.InDelta(t, 0, km, 1e-9)
	})

	t.Run("zero value cannot be measured", func(t *testing.T) {
		var zero kernel.Coordinates
		c, _ := kernel.NewCoordinates(10, 10)

		_, err := c.DistanceKm(zero)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
