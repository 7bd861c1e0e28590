package queries

import (
	"context"
	"database/sql"

	"lockers/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListActiveLockersQueryHandler struct {
	db *gorm.DB
}

func NewListActiveLockersQueryHandler(db *gorm.DB) ListActiveLockersQueryHandler {
	return ListActiveLockersQueryHandler{db: db}
}

// Handle returns active lockers sorted by name, full ones included.
func (h ListActiveLockersQueryHandler) Handle(
	ctx context.Context,
	query ListActiveLockersQuery,
) ([]ListActiveLockersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	lockers := make([]ListActiveLockersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			address,
			latitude,
			longitude,
			total_compartments,
			available_compartments
		FROM lockers
		WHERE is_active
		ORDER BY name, id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp ListActiveLockersQueryResponse
		var id uuid.UUID
		var latitude, longitude sql.NullFloat64

		err = rows.Scan(
			&id,
			&resp.Name,
			&resp.Address,
			&latitude,
			&longitude,
			&resp.TotalCompartments,
			&resp.AvailableCompartments,
		)
		if err != nil {
			return nil, err
		}

		lockerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = lockerID

		if latitude.Valid && longitude.Valid {
			location, locErr := kernel.NewCoordinates(latitude.Float64, longitude.Float64)
			if locErr != nil {
				return nil, locErr
			}
			resp.Location = &location
		}
		lockers = append(lockers, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return lockers, nil
}
