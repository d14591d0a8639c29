package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/elmirador/condo-api/internal/logger"
	"github.com/elmirador/condo-api/internal/models"
	"github.com/elmirador/condo-api/internal/repository"
)

// Service-level errors for the unit registry
var (
	ErrUnitNotFound  = errors.New("unit not found")
	ErrDuplicateUnit = errors.New("unit code already exists")
	ErrInvalidUnit   = errors.New("invalid unit")
)

// UnitService defines the business logic for the apartment registry.
type UnitService interface {
	// CreateUnit registers a new apartment.
	// Returns ErrInvalidUnit for missing code or non-positive room or
	// bathroom counts, ErrDuplicateUnit when the code is taken.
	CreateUnit(ctx context.Context, unit models.Unit) (*models.Unit, error)

	// SeedUnits inserts the fixed demo set of apartments, skipping codes
	// that already exist. Returns the number of units created.
	SeedUnits(ctx context.Context) (int, error)

	// ListUnits returns all registered units.
	ListUnits(ctx context.Context) ([]models.Unit, error)

	// GetUnit retrieves one unit by code.
	// Returns ErrUnitNotFound if the code is not registered.
	GetUnit(ctx context.Context, code string) (*models.Unit, error)
}

// unitService is the concrete implementation of UnitService.
type unitService struct {
	repo repository.UnitRepository
	log  *logger.Logger
}

// NewUnitService creates a new instance of UnitService.
func NewUnitService(repo repository.UnitRepository, log *logger.Logger) UnitService {
	return &unitService{
		repo: repo,
		log:  log,
	}
}

// CreateUnit validates and registers one apartment.
func (s *unitService) CreateUnit(ctx context.Context, unit models.Unit) (*models.Unit, error) {
	if unit.Code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidUnit)
	}
	if unit.RoomCount < 1 {
		return nil, fmt.Errorf("%w: room count must be a positive integer, got %d",
			ErrInvalidUnit, unit.RoomCount)
	}
	if unit.BathroomCount < 1 {
		return nil, fmt.Errorf("%w: bathroom count must be a positive integer, got %d",
			ErrInvalidUnit, unit.BathroomCount)
	}

	created, err := s.repo.Create(ctx, unit)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUnitCode) {
			s.log.Warn("Rejected duplicate unit code", map[string]interface{}{
				"code": unit.Code,
			})
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUnit, unit.Code)
		}
		s.log.Error("Failed to create unit", err, map[string]interface{}{
			"code": unit.Code,
		})
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}

	s.log.Info("Unit created", map[string]interface{}{
		"code":   created.Code,
		"floor":  created.Floor,
		"status": created.Status,
	})

	return created, nil
}

// SeedUnits bootstraps the registry with the demo apartment set.
func (s *unitService) SeedUnits(ctx context.Context) (int, error) {
	created, err := s.repo.CreateBatch(ctx, models.SeedUnits())
	if err != nil {
		s.log.Error("Failed to seed units", err, nil)
		return 0, fmt.Errorf("failed to seed units: %w", err)
	}

	s.log.Info("Units seeded", map[string]interface{}{
		"created": created,
	})

	return created, nil
}

// ListUnits returns every registered unit.
func (s *unitService) ListUnits(ctx context.Context) ([]models.Unit, error) {
	units, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list units", err, nil)
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	return units, nil
}

// GetUnit retrieves one unit, translating absence into ErrUnitNotFound.
func (s *unitService) GetUnit(ctx context.Context, code string) (*models.Unit, error) {
	unit, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		s.log.Error("Failed to query unit", err, map[string]interface{}{
			"code": code,
		})
		return nil, fmt.Errorf("failed to query unit: %w", err)
	}
	if unit == nil {
		return nil, ErrUnitNotFound
	}

	return unit, nil
}
