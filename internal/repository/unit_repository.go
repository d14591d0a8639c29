package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/elmirador/condo-api/internal/database"
	"github.com/elmirador/condo-api/internal/models"
)

// ErrDuplicateUnitCode is returned when inserting a unit whose code
// already exists.
var ErrDuplicateUnitCode = errors.New("unit code already exists")

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// UnitRepository defines the data access operations for apartment units.
type UnitRepository interface {
	// Create inserts a new unit and returns it with timestamps populated.
	// Returns ErrDuplicateUnitCode if the code is already taken.
	Create(ctx context.Context, unit models.Unit) (*models.Unit, error)

	// CreateBatch inserts the given units in one transaction, skipping
	// codes that already exist. Returns the number of units inserted.
	CreateBatch(ctx context.Context, units []models.Unit) (int, error)

	// GetByCode finds a unit by its code.
	// Returns nil, nil if no unit is found (not an error).
	GetByCode(ctx context.Context, code string) (*models.Unit, error)

	// List returns all registered units ordered by code.
	// Returns an empty slice if none are registered.
	List(ctx context.Context) ([]models.Unit, error)
}

// unitRepository is the concrete implementation of UnitRepository.
type unitRepository struct {
	db *database.Database
}

// NewUnitRepository creates a new instance of UnitRepository.
func NewUnitRepository(db *database.Database) UnitRepository {
	return &unitRepository{db: db}
}

const unitColumns = `
	code, floor, number, is_leased, owner_id, tenant_id,
	lease_start, lease_end, status, notes, room_count, bathroom_count,
	created_at, updated_at`

func scanUnit(row pgx.Row) (*models.Unit, error) {
	var unit models.Unit
	err := row.Scan(
		&unit.Code,
		&unit.Floor,
		&unit.Number,
		&unit.IsLeased,
		&unit.OwnerID,
		&unit.TenantID,
		&unit.LeaseStart,
		&unit.LeaseEnd,
		&unit.Status,
		&unit.Notes,
		&unit.RoomCount,
		&unit.BathroomCount,
		&unit.CreatedAt,
		&unit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// Create inserts one unit. The code is the primary key, so a collision
// surfaces as a unique violation and is mapped to ErrDuplicateUnitCode.
func (r *unitRepository) Create(ctx context.Context, unit models.Unit) (*models.Unit, error) {
	query := `
		INSERT INTO units (
			code, floor, number, is_leased, owner_id, tenant_id,
			lease_start, lease_end, status, notes, room_count, bathroom_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + unitColumns

	created, err := scanUnit(r.db.Pool.QueryRow(ctx, query,
		unit.Code,
		unit.Floor,
		unit.Number,
		unit.IsLeased,
		unit.OwnerID,
		unit.TenantID,
		unit.LeaseStart,
		unit.LeaseEnd,
		unit.Status,
		unit.Notes,
		unit.RoomCount,
		unit.BathroomCount,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateUnitCode
		}
		return nil, fmt.Errorf("failed to insert unit %s: %w", unit.Code, err)
	}

	return created, nil
}

// CreateBatch inserts units inside a single transaction so a partial
// failure leaves the registry untouched. Existing codes are skipped.
func (r *unitRepository) CreateBatch(ctx context.Context, units []models.Unit) (int, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO units (
			code, floor, number, is_leased, owner_id, tenant_id,
			lease_start, lease_end, status, notes, room_count, bathroom_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (code) DO NOTHING`

	inserted := 0
	for _, unit := range units {
		tag, err := tx.Exec(ctx, query,
			unit.Code,
			unit.Floor,
			unit.Number,
			unit.IsLeased,
			unit.OwnerID,
			unit.TenantID,
			unit.LeaseStart,
			unit.LeaseEnd,
			unit.Status,
			unit.Notes,
			unit.RoomCount,
			unit.BathroomCount,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert unit %s: %w", unit.Code, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// GetByCode fetches one unit by primary key.
func (r *unitRepository) GetByCode(ctx context.Context, code string) (*models.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE code = $1`

	unit, err := scanUnit(r.db.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query unit %s: %w", code, err)
	}

	return unit, nil
}

// List returns every registered unit.
func (r *unitRepository) List(ctx context.Context) ([]models.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units ORDER BY code`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	units := []models.Unit{}
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		units = append(units, *unit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit rows: %w", err)
	}

	return units, nil
}
