package queries_test

import (
	"testing"

	"lockers/internal/core/application/usecases/queries"
	"lockers/internal/core/domain/model/kernel"
	"lockers/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrderQuery_Valid(t *testing.T) {
	orderID, userID := kernel.NewUUID(), kernel.NewUUID()

	query, err := queries.NewGetOrderQuery(orderID, userID)

	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, orderID, query.OrderID())
	assert.Equal(t, userID, query.UserID())
}

func TestNewGetOrderQuery_InvalidIDs(t *testing.T) {
	_, err := queries.NewGetOrderQuery(kernel.UUID{}, kernel.NewUUID())
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestQueries_NotConstructedViaConstructor(t *testing.T) {
	assert.ErrorIs(t, queries.GetOrderQuery{}.Validate(), queries.ErrGetOrderQueryIsNotConstructed)
	assert.ErrorIs(t, queries.ListActiveLockersQuery{}.Validate(), queries.ErrListActiveLockersQueryIsNotConstructed)
	assert.NoError(t, queries.NewListActiveLockersQuery().Validate())
}
