package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/elmirador/condo-api/internal/errors"
	"github.com/elmirador/condo-api/internal/models"
	"github.com/elmirador/condo-api/internal/services"
)

// UnitHandler handles apartment-registry HTTP requests.
type UnitHandler struct {
	service services.UnitService
}

// NewUnitHandler creates a new UnitHandler instance.
func NewUnitHandler(service services.UnitService) *UnitHandler {
	return &UnitHandler{
		service: service,
	}
}

// CreateUnitRequest is the body for registering one apartment.
type CreateUnitRequest struct {
	Code          string  `json:"code" binding:"required"`
	Floor         string  `json:"floor" binding:"required"`
	Number        string  `json:"number" binding:"required"`
	IsLeased      bool    `json:"is_leased"`
	OwnerID       string  `json:"owner_id" binding:"required"`
	TenantID      *string `json:"tenant_id"`
	LeaseStart    *string `json:"lease_start"`
	LeaseEnd      *string `json:"lease_end"`
	Status        string  `json:"status" binding:"required"`
	Notes         *string `json:"notes"`
	RoomCount     int     `json:"room_count" binding:"required,gt=0"`
	BathroomCount int     `json:"bathroom_count" binding:"required,gt=0"`
}

// UnitListResponse wraps a list of units.
type UnitListResponse struct {
	Units []models.Unit `json:"units"`
	Count int           `json:"count"`
}

// Create handles POST /api/v1/units.
func (h *UnitHandler) Create(c *gin.Context) {
	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	unit, err := h.service.CreateUnit(c.Request.Context(), models.Unit{
		Code:          req.Code,
		Floor:         req.Floor,
		Number:        req.Number,
		IsLeased:      req.IsLeased,
		OwnerID:       req.OwnerID,
		TenantID:      req.TenantID,
		LeaseStart:    req.LeaseStart,
		LeaseEnd:      req.LeaseEnd,
		Status:        req.Status,
		Notes:         req.Notes,
		RoomCount:     req.RoomCount,
		BathroomCount: req.BathroomCount,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUnit):
			apierrors.BadRequest(c, err.Error(), nil)
		case errors.Is(err, services.ErrDuplicateUnit):
			apierrors.DuplicateKey(c, fmt.Sprintf("Unit %s already exists", req.Code))
		default:
			apierrors.InternalServerError(c, "Failed to create unit", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Unit created successfully",
		"unit":    unit,
	})
}

// Seed handles POST /api/v1/units/seed.
// It registers the demo apartment set, skipping codes that already exist.
func (h *UnitHandler) Seed(c *gin.Context) {
	created, err := h.service.SeedUnits(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to seed units", err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{
		Message: fmt.Sprintf("Units created successfully (%d new)", created),
	})
}

// List handles GET /api/v1/units.
func (h *UnitHandler) List(c *gin.Context) {
	units, err := h.service.ListUnits(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list units", err)
		return
	}

	if len(units) == 0 {
		c.JSON(http.StatusOK, MessageResponse{
			Message: "No units registered",
		})
		return
	}

	c.JSON(http.StatusOK, UnitListResponse{
		Units: units,
		Count: len(units),
	})
}

// Get handles GET /api/v1/units/:code.
func (h *UnitHandler) Get(c *gin.Context) {
	code := c.Param("code")

	unit, err := h.service.GetUnit(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrUnitNotFound) {
			apierrors.NotFound(c, "Unit not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to query unit", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit})
}
