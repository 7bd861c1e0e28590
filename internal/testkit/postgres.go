package testkit

import (
	"context"
	"fmt"
	"time"

	"lockers/internal/adapters/out/postgres/migrations"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Postgres is a throwaway database with the schema migrated.
type Postgres struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
	DSN       string
}

// StartPostgres runs postgres:15-alpine and applies the goose migrations.
func StartPostgres(ctx context.Context) (*Postgres, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}
	pg := &Postgres{Container: container}

	pg.DSN, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, err
	}
	if err = migrations.UpDSN(pg.DSN); err != nil {
		_ = pg.Terminate(ctx)
		return nil, err
	}

	pg.DB, err = gorm.Open(postgresdriver.Open(pg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, err
	}
	return pg, nil
}

// Truncate empties every table between tests.
func (p *Postgres) Truncate() error {
	return p.DB.Exec("TRUNCATE TABLE locker_orders, listings, locker_compartments, lockers CASCADE").Error
}

func (p *Postgres) Terminate(ctx context.Context) error {
	if p.Container == nil {
		return nil
	}
	return p.Container.Terminate(ctx)
}
