package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elmirador/condo-api/internal/logger"
	"github.com/elmirador/condo-api/internal/models"
	"github.com/elmirador/condo-api/internal/repository"
)

// Billing period validation constants
const (
	MinMonth = 1
	MaxMonth = 12
	MinYear  = 1000
	MaxYear  = 9999
)

// Service-level errors for the charge ledger
var (
	ErrInvalidPeriod    = errors.New("invalid billing period")
	ErrChargeNotFound   = errors.New("charge not found")
	ErrDuplicatePayment = errors.New("charge has already been paid")
)

// PaymentInput carries the caller-supplied fields for settling a charge.
type PaymentInput struct {
	UnitCode   string
	Month      int
	Year       int
	PaidDate   time.Time
	PayerTaxID *string
	PayerName  *string
	PayerPhone *string
}

// ChargeService defines the business logic for the charge ledger.
type ChargeService interface {
	// GenerateCharges creates one charge per registered unit for the
	// given month, or one per month of the whole year when month is nil.
	// Periods a unit is already charged for are skipped. Returns the
	// number of charges created.
	// Returns ErrInvalidPeriod when the year or month is out of range.
	GenerateCharges(ctx context.Context, month *int, year int) (int, error)

	// ListCharges returns every charge on record.
	ListCharges(ctx context.Context) ([]models.Charge, error)

	// ListPendingCharges returns the unsettled charges of the given year
	// from January through the given month.
	// Returns ErrInvalidPeriod when the year or month is out of range.
	ListPendingCharges(ctx context.Context, month, year int) ([]models.Charge, error)

	// MarkPaid settles the charge identified by unit code and period.
	// Returns ErrUnitNotFound or ErrChargeNotFound when the references
	// are absent, ErrDuplicatePayment when the charge is already settled,
	// and ErrInvalidPeriod for an out-of-range month or year. The
	// returned charge carries the recorded settlement.
	MarkPaid(ctx context.Context, input PaymentInput) (*models.Charge, error)
}

// chargeService is the concrete implementation of ChargeService.
// It reads unit codes from the unit repository when generating and
// validating payments; all charge state lives in the charge repository.
type chargeService struct {
	charges repository.ChargeRepository
	units   repository.UnitRepository
	log     *logger.Logger
}

// NewChargeService creates a new instance of ChargeService.
func NewChargeService(charges repository.ChargeRepository, units repository.UnitRepository, log *logger.Logger) ChargeService {
	return &chargeService{
		charges: charges,
		units:   units,
		log:     log,
	}
}

func validateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: year must be a 4-digit calendar year, got %d", ErrInvalidPeriod, year)
	}
	return nil
}

func validateMonth(month int) error {
	if month < MinMonth || month > MaxMonth {
		return fmt.Errorf("%w: month must be between %d and %d, got %d",
			ErrInvalidPeriod, MinMonth, MaxMonth, month)
	}
	return nil
}

// GenerateCharges bulk-creates charge records for every registered unit.
func (s *chargeService) GenerateCharges(ctx context.Context, month *int, year int) (int, error) {
	if err := validateYear(year); err != nil {
		return 0, err
	}

	months := make([]int, 0, MaxMonth)
	if month != nil {
		if err := validateMonth(*month); err != nil {
			return 0, err
		}
		months = append(months, *month)
	} else {
		for m := MinMonth; m <= MaxMonth; m++ {
			months = append(months, m)
		}
	}

	units, err := s.units.List(ctx)
	if err != nil {
		s.log.Error("Failed to list units for charge generation", err, nil)
		return 0, fmt.Errorf("failed to list units: %w", err)
	}

	codes := make([]string, 0, len(units))
	for _, unit := range units {
		codes = append(codes, unit.Code)
	}

	created, err := s.charges.GenerateForUnits(ctx, codes, months, year)
	if err != nil {
		s.log.Error("Failed to generate charges", err, map[string]interface{}{
			"year":   year,
			"months": months,
		})
		return 0, fmt.Errorf("failed to generate charges: %w", err)
	}

	s.log.Info("Charges generated", map[string]interface{}{
		"year":    year,
		"months":  len(months),
		"units":   len(codes),
		"created": created,
	})

	return created, nil
}

// ListCharges returns every charge on record.
func (s *chargeService) ListCharges(ctx context.Context) ([]models.Charge, error) {
	charges, err := s.charges.List(ctx)
	if err != nil {
		s.log.Error("Failed to list charges", err, nil)
		return nil, fmt.Errorf("failed to list charges: %w", err)
	}

	return charges, nil
}

// ListPendingCharges returns the unsettled charges from January through
// the requested month of the requested year.
func (s *chargeService) ListPendingCharges(ctx context.Context, month, year int) ([]models.Charge, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	charges, err := s.charges.ListPending(ctx, month, year)
	if err != nil {
		s.log.Error("Failed to list pending charges", err, map[string]interface{}{
			"month": month,
			"year":  year,
		})
		return nil, fmt.Errorf("failed to list pending charges: %w", err)
	}

	return charges, nil
}

// MarkPaid settles one charge, computing the late flag against the due
// date (the 15th of the charge's month). Settlement is applied as a
// conditional update so a charge can never be paid twice, even by
// concurrent callers.
func (s *chargeService) MarkPaid(ctx context.Context, input PaymentInput) (*models.Charge, error) {
	if err := validateYear(input.Year); err != nil {
		return nil, err
	}
	if err := validateMonth(input.Month); err != nil {
		return nil, err
	}

	unit, err := s.units.GetByCode(ctx, input.UnitCode)
	if err != nil {
		s.log.Error("Failed to query unit for payment", err, map[string]interface{}{
			"unit_code": input.UnitCode,
		})
		return nil, fmt.Errorf("failed to query unit: %w", err)
	}
	if unit == nil {
		return nil, ErrUnitNotFound
	}

	charge, err := s.charges.FindByPeriod(ctx, input.UnitCode, input.Month, input.Year)
	if err != nil {
		s.log.Error("Failed to query charge for payment", err, map[string]interface{}{
			"unit_code": input.UnitCode,
			"month":     input.Month,
			"year":      input.Year,
		})
		return nil, fmt.Errorf("failed to query charge: %w", err)
	}
	if charge == nil {
		return nil, ErrChargeNotFound
	}
	if charge.Settled() {
		s.log.Warn("Duplicate payment rejected", map[string]interface{}{
			"charge_id": charge.ID,
			"unit_code": input.UnitCode,
			"paid_date": charge.PaidDate.Format("2006-01-02"),
		})
		return nil, ErrDuplicatePayment
	}

	isLate := models.IsLatePayment(input.Year, input.Month, input.PaidDate)

	settled, err := s.charges.Settle(ctx, input.UnitCode, input.Month, input.Year, repository.Settlement{
		PaidDate:   input.PaidDate,
		IsLate:     isLate,
		PayerTaxID: input.PayerTaxID,
		PayerName:  input.PayerName,
		PayerPhone: input.PayerPhone,
	})
	if err != nil {
		s.log.Error("Failed to settle charge", err, map[string]interface{}{
			"charge_id": charge.ID,
		})
		return nil, fmt.Errorf("failed to settle charge: %w", err)
	}
	if !settled {
		// The charge was settled between the read and the update.
		return nil, ErrDuplicatePayment
	}

	charge.PaidDate = &input.PaidDate
	charge.IsLate = isLate
	charge.PayerTaxID = input.PayerTaxID
	charge.PayerName = input.PayerName
	charge.PayerPhone = input.PayerPhone

	s.log.Info("Charge settled", map[string]interface{}{
		"charge_id": charge.ID,
		"unit_code": charge.UnitCode,
		"month":     charge.Month,
		"year":      charge.Year,
		"paid_date": input.PaidDate.Format("2006-01-02"),
		"is_late":   isLate,
	})

	return charge, nil
}
