package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/elmirador/condo-api/internal/database"
	"github.com/elmirador/condo-api/internal/models"
)

// Settlement carries the fields written to a charge when it is paid.
type Settlement struct {
	PaidDate   time.Time
	IsLate     bool
	PayerTaxID *string
	PayerName  *string
	PayerPhone *string
}

// ChargeRepository defines the data access operations for monthly
// common-expense charges.
type ChargeRepository interface {
	// GenerateForUnits creates one charge per (unit, month) pair for the
	// given year in a single transaction. Periods that already have a
	// charge for a unit are skipped. Returns the number of charges created.
	GenerateForUnits(ctx context.Context, unitCodes []string, months []int, year int) (int, error)

	// List returns all charges ordered by year, month and unit code.
	List(ctx context.Context) ([]models.Charge, error)

	// ListPending returns unsettled charges of the given year with
	// month <= the given month, ordered by month and unit code.
	ListPending(ctx context.Context, month, year int) ([]models.Charge, error)

	// FindByPeriod finds the charge for one unit and billing period.
	// Returns nil, nil if no charge is found (not an error).
	FindByPeriod(ctx context.Context, unitCode string, month, year int) (*models.Charge, error)

	// Settle records a payment on the charge for (unitCode, month, year).
	// The update is conditional on the charge being unsettled, so
	// concurrent callers cannot both settle the same charge. Returns
	// false when no unsettled charge matched.
	Settle(ctx context.Context, unitCode string, month, year int, s Settlement) (bool, error)
}

// chargeRepository is the concrete implementation of ChargeRepository.
type chargeRepository struct {
	db *database.Database
}

// NewChargeRepository creates a new instance of ChargeRepository.
func NewChargeRepository(db *database.Database) ChargeRepository {
	return &chargeRepository{db: db}
}

const chargeColumns = `
	id, month, year, unit_code, amount_paid, paid_date, is_late,
	payer_tax_id, payer_name, payer_phone, created_at, updated_at`

func scanCharge(row pgx.Row) (*models.Charge, error) {
	var charge models.Charge
	err := row.Scan(
		&charge.ID,
		&charge.Month,
		&charge.Year,
		&charge.UnitCode,
		&charge.AmountPaid,
		&charge.PaidDate,
		&charge.IsLate,
		&charge.PayerTaxID,
		&charge.PayerName,
		&charge.PayerPhone,
		&charge.CreatedAt,
		&charge.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// GenerateForUnits bulk-creates charges with zero amount paid and no
// settlement fields. The unique index on (unit_code, year, month) plus
// ON CONFLICT DO NOTHING makes repeated generation idempotent per period.
func (r *chargeRepository) GenerateForUnits(ctx context.Context, unitCodes []string, months []int, year int) (int, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO charges (month, year, unit_code)
		VALUES ($1, $2, $3)
		ON CONFLICT (unit_code, year, month) DO NOTHING`

	created := 0
	for _, code := range unitCodes {
		for _, month := range months {
			tag, err := tx.Exec(ctx, query, month, year, code)
			if err != nil {
				return 0, fmt.Errorf("failed to insert charge for unit %s period %d-%02d: %w",
					code, year, month, err)
			}
			created += int(tag.RowsAffected())
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return created, nil
}

// List returns every charge on record.
func (r *chargeRepository) List(ctx context.Context) ([]models.Charge, error) {
	query := `SELECT ` + chargeColumns + ` FROM charges ORDER BY year, month, unit_code`

	return r.queryCharges(ctx, query)
}

// ListPending selects the unsettled charges from January through the
// requested month of the requested year.
func (r *chargeRepository) ListPending(ctx context.Context, month, year int) ([]models.Charge, error) {
	query := `
		SELECT ` + chargeColumns + `
		FROM charges
		WHERE year = $1 AND month <= $2 AND paid_date IS NULL
		ORDER BY month, unit_code`

	return r.queryCharges(ctx, query, year, month)
}

func (r *chargeRepository) queryCharges(ctx context.Context, query string, args ...interface{}) ([]models.Charge, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query charges: %w", err)
	}
	defer rows.Close()

	charges := []models.Charge{}
	for rows.Next() {
		charge, err := scanCharge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan charge row: %w", err)
		}
		charges = append(charges, *charge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating charge rows: %w", err)
	}

	return charges, nil
}

// FindByPeriod fetches the single charge for one unit and period.
func (r *chargeRepository) FindByPeriod(ctx context.Context, unitCode string, month, year int) (*models.Charge, error) {
	query := `
		SELECT ` + chargeColumns + `
		FROM charges
		WHERE unit_code = $1 AND month = $2 AND year = $3`

	charge, err := scanCharge(r.db.Pool.QueryRow(ctx, query, unitCode, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query charge for unit %s period %d-%02d: %w",
			unitCode, year, month, err)
	}

	return charge, nil
}

// Settle applies the payment as one conditional UPDATE. The
// paid_date IS NULL guard is the compare-and-set that keeps a settled
// charge immutable even under concurrent payment attempts.
func (r *chargeRepository) Settle(ctx context.Context, unitCode string, month, year int, s Settlement) (bool, error) {
	query := `
		UPDATE charges
		SET paid_date = $1,
		    is_late = $2,
		    payer_tax_id = $3,
		    payer_name = $4,
		    payer_phone = $5,
		    updated_at = NOW()
		WHERE unit_code = $6 AND month = $7 AND year = $8 AND paid_date IS NULL`

	tag, err := r.db.Pool.Exec(ctx, query,
		s.PaidDate,
		s.IsLate,
		s.PayerTaxID,
		s.PayerName,
		s.PayerPhone,
		unitCode,
		month,
		year,
	)
	if err != nil {
		return false, fmt.Errorf("failed to settle charge for unit %s period %d-%02d: %w",
			unitCode, year, month, err)
	}

	return tag.RowsAffected() == 1, nil
}
