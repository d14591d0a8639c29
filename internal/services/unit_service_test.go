package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/elmirador/condo-api/internal/logger"
	"github.com/elmirador/condo-api/internal/models"
	"github.com/elmirador/condo-api/internal/repository"
)

func newUnitService(repo *MockUnitRepository) UnitService {
	return NewUnitService(repo, logger.New("test"))
}

func TestCreateUnit_Success(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newUnitService(mockRepo)

	ctx := context.Background()
	unit := models.Unit{
		Code: "B301", Floor: "3", Number: "01",
		OwnerID: "99999999-9", Status: "available",
		RoomCount: 2, BathroomCount: 1,
	}
	created := unit
	mockRepo.On("Create", ctx, unit).Return(&created, nil)

	got, err := service.CreateUnit(ctx, unit)

	require.NoError(t, err)
	assert.Equal(t, "B301", got.Code)
	mockRepo.AssertExpectations(t)
}

func TestCreateUnit_Invalid(t *testing.T) {
	tests := []struct {
		name string
		unit models.Unit
	}{
		{
			name: "missing code",
			unit: models.Unit{RoomCount: 2, BathroomCount: 1},
		},
		{
			name: "zero rooms",
			unit: models.Unit{Code: "B301", RoomCount: 0, BathroomCount: 1},
		},
		{
			name: "negative bathrooms",
			unit: models.Unit{Code: "B301", RoomCount: 2, BathroomCount: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUnitRepository)
			service := newUnitService(mockRepo)

			_, err := service.CreateUnit(context.Background(), tt.unit)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidUnit)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateUnit_Duplicate(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newUnitService(mockRepo)

	ctx := context.Background()
	unit := models.Unit{Code: "A101", RoomCount: 3, BathroomCount: 2}
	mockRepo.On("Create", ctx, unit).Return(nil, repository.ErrDuplicateUnitCode)

	_, err := service.CreateUnit(ctx, unit)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateUnit)
}

func TestSeedUnits(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newUnitService(mockRepo)

	ctx := context.Background()
	mockRepo.On("CreateBatch", ctx, models.SeedUnits()).Return(6, nil)

	created, err := service.SeedUnits(ctx)

	require.NoError(t, err)
	assert.Equal(t, 6, created)
	mockRepo.AssertExpectations(t)
}

func TestSeedUnits_AlreadySeeded(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newUnitService(mockRepo)

	ctx := context.Background()
	mockRepo.On("CreateBatch", ctx, models.SeedUnits()).Return(0, nil)

	created, err := service.SeedUnits(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestListUnits(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newUnitService(mockRepo)

	ctx := context.Background()
	mockRepo.On("List", ctx).Return(registeredUnits("A101", "A102"), nil)

	units, err := service.ListUnits(ctx)

	require.NoError(t, err)
	assert.Len(t, units, 2)
}

func TestListUnits_Error(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newUnitService(mockRepo)

	ctx := context.Background()
	mockRepo.On("List", ctx).Return(nil, errors.New("connection lost"))

	_, err := service.ListUnits(ctx)

	require.Error(t, err)
}

func TestGetUnit_Success(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newUnitService(mockRepo)

	ctx := context.Background()
	unit := &models.Unit{Code: "A101", RoomCount: 3, BathroomCount: 2}
	mockRepo.On("GetByCode", ctx, "A101").Return(unit, nil)

	got, err := service.GetUnit(ctx, "A101")

	require.NoError(t, err)
	assert.Equal(t, "A101", got.Code)
}

func TestGetUnit_NotFound(t *testing.T) {
	mockRepo := new(MockUnitRepository)
	service := newUnitService(mockRepo)

	ctx := context.Background()
	mockRepo.On("GetByCode", ctx, "Z999").Return(nil, nil)

	_, err := service.GetUnit(ctx, "Z999")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnitNotFound)
}
