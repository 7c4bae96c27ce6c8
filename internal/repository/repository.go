package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/teslamate-tools/addrfix/internal/models"
)

// Database abstracts the pgx connection pool so the repository can be tested
// with pgxmock. It is satisfied by *pgxpool.Pool.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

type Repository struct {
	db  Database
	log *slog.Logger
}

type Interface interface {
	FetchDrivesMissingAddress(ctx context.Context) ([]models.Drive, error)
	FetchChargesMissingAddress(ctx context.Context) ([]models.ChargingProcess, error)
	GetPositionCoordinates(ctx context.Context, positionID int64) (models.Coordinates, error)
	CountOrphanedReferences(ctx context.Context) (int64, error)
	UpsertAddress(ctx context.Context, address *models.Address) (int64, error)
	UpdateDriveStartAddress(ctx context.Context, driveID, addressID int64) error
	UpdateDriveEndAddress(ctx context.Context, driveID, addressID int64) error
	UpdateChargingProcessAddress(ctx context.Context, chargeID, addressID int64) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
