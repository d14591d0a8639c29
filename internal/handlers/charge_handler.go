package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/elmirador/condo-api/internal/errors"
	"github.com/elmirador/condo-api/internal/middleware"
	"github.com/elmirador/condo-api/internal/models"
	"github.com/elmirador/condo-api/internal/services"
)

// paidDateLayout is the wire format for calendar dates.
const paidDateLayout = "2006-01-02"

// ChargeHandler handles charge-ledger HTTP requests.
type ChargeHandler struct {
	service services.ChargeService
}

// NewChargeHandler creates a new ChargeHandler instance.
func NewChargeHandler(service services.ChargeService) *ChargeHandler {
	return &ChargeHandler{
		service: service,
	}
}

// GenerateChargesRequest is the body for the generate endpoint. A nil
// month means one charge per month of the whole year.
type GenerateChargesRequest struct {
	Month *int `json:"month" binding:"omitempty,min=1,max=12"`
	Year  int  `json:"year" binding:"required,gte=1000,lte=9999"`
}

// MarkPaidRequest is the body for the payment endpoint.
type MarkPaidRequest struct {
	UnitCode   string  `json:"unit_code" binding:"required"`
	Month      int     `json:"month" binding:"required,min=1,max=12"`
	Year       int     `json:"year" binding:"required,gte=1000,lte=9999"`
	PaidDate   string  `json:"paid_date" binding:"required,datetime=2006-01-02"`
	PayerTaxID *string `json:"payer_tax_id"`
	PayerName  *string `json:"payer_name"`
	PayerPhone *string `json:"payer_phone"`
}

// PendingChargesRequest is the query for the pending endpoint.
type PendingChargesRequest struct {
	Month int `form:"month" binding:"required,min=1,max=12"`
	Year  int `form:"year" binding:"required,gte=1000,lte=9999"`
}

// ChargeListResponse wraps a list of charges.
type ChargeListResponse struct {
	Charges []models.Charge `json:"charges"`
	Count   int             `json:"count"`
}

// MessageResponse carries a human-readable acknowledgment.
type MessageResponse struct {
	Message string `json:"message"`
}

// Generate handles POST /api/v1/charges/generate.
// It bulk-creates the common-expense charges for a month, or for every
// month of the year when no month is given.
func (h *ChargeHandler) Generate(c *gin.Context) {
	var req GenerateChargesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	created, err := h.service.GenerateCharges(c.Request.Context(), req.Month, req.Year)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriod) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to generate charges", err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{
		Message: fmt.Sprintf("Common-expense charges created successfully (%d new)", created),
	})
}

// List handles GET /api/v1/charges.
func (h *ChargeHandler) List(c *gin.Context) {
	charges, err := h.service.ListCharges(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list charges", err)
		return
	}

	c.JSON(http.StatusOK, ChargeListResponse{
		Charges: charges,
		Count:   len(charges),
	})
}

// ListPending handles GET /api/v1/charges/pending.
// It returns the unsettled charges of the requested year from January
// through the requested month. An empty result is reported as a
// distinguished "no pending" message rather than an empty array.
func (h *ChargeHandler) ListPending(c *gin.Context) {
	var req PendingChargesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	charges, err := h.service.ListPendingCharges(c.Request.Context(), req.Month, req.Year)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriod) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to list pending charges", err)
		return
	}

	if len(charges) == 0 {
		c.JSON(http.StatusOK, MessageResponse{
			Message: fmt.Sprintf("No pending amounts through %02d-%d", req.Month, req.Year),
		})
		return
	}

	c.JSON(http.StatusOK, ChargeListResponse{
		Charges: charges,
		Count:   len(charges),
	})
}

// MarkPaid handles POST /api/v1/charges/payments.
// It settles one charge, recording the payment date, the payer and the
// computed late flag.
func (h *ChargeHandler) MarkPaid(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	paidDate, err := time.Parse(paidDateLayout, req.PaidDate)
	if err != nil {
		apierrors.BadRequest(c, "paid_date must be a valid calendar date in YYYY-MM-DD format", nil)
		return
	}

	if log != nil {
		log.Info("Processing payment", map[string]interface{}{
			"unit_code": req.UnitCode,
			"month":     req.Month,
			"year":      req.Year,
			"paid_date": req.PaidDate,
		})
	}

	charge, err := h.service.MarkPaid(c.Request.Context(), services.PaymentInput{
		UnitCode:   req.UnitCode,
		Month:      req.Month,
		Year:       req.Year,
		PaidDate:   paidDate,
		PayerTaxID: req.PayerTaxID,
		PayerName:  req.PayerName,
		PayerPhone: req.PayerPhone,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPeriod):
			apierrors.BadRequest(c, err.Error(), nil)
		case errors.Is(err, services.ErrUnitNotFound):
			apierrors.NotFound(c, "Unit not found")
		case errors.Is(err, services.ErrChargeNotFound):
			apierrors.NotFound(c, "No charge found for the unit and period")
		case errors.Is(err, services.ErrDuplicatePayment):
			apierrors.Conflict(c, "Charge has already been paid")
		default:
			apierrors.InternalServerError(c, "Failed to record payment", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Charge marked as paid",
		"charge":  charge,
	})
}
