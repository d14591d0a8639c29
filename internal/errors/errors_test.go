package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmirador/condo-api/internal/logger"
	"github.com/elmirador/condo-api/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestContext creates a test Gin context with logger and request ID set.
func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	c.Set("logger", logger.New("test"))
	c.Set(middleware.RequestIDKey, "test-request-id")

	return c, w
}

func parseErrorResponse(t *testing.T, body *bytes.Buffer) ErrorResponse {
	var response ErrorResponse
	err := json.Unmarshal(body.Bytes(), &response)
	require.NoError(t, err, "Failed to parse error response JSON")
	return response
}

func TestNotFound(t *testing.T) {
	c, w := setupTestContext()

	NotFound(c, "Unit not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrNotFound, response.Error.Code)
	assert.Equal(t, "Unit not found", response.Error.Message)
	assert.Equal(t, "test-request-id", response.Error.RequestID)
	assert.Nil(t, response.Error.Details)
}

func TestBadRequest(t *testing.T) {
	t.Run("without details", func(t *testing.T) {
		c, w := setupTestContext()

		BadRequest(c, "Invalid input", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrBadRequest, response.Error.Code)
		assert.Equal(t, "Invalid input", response.Error.Message)
		assert.Nil(t, response.Error.Details)
	})

	t.Run("with details", func(t *testing.T) {
		c, w := setupTestContext()

		details := map[string]interface{}{
			"field": "month",
			"value": 13,
		}
		BadRequest(c, "Invalid input", details)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrBadRequest, response.Error.Code)
		assert.NotNil(t, response.Error.Details)
		assert.Equal(t, "month", response.Error.Details["field"])
	})
}

func TestConflict(t *testing.T) {
	c, w := setupTestContext()

	Conflict(c, "Charge has already been paid")

	assert.Equal(t, http.StatusConflict, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrConflict, response.Error.Code)
	assert.Equal(t, "Charge has already been paid", response.Error.Message)
	assert.Equal(t, "test-request-id", response.Error.RequestID)
}

func TestDuplicateKey(t *testing.T) {
	c, w := setupTestContext()

	DuplicateKey(c, "Unit code already exists")

	assert.Equal(t, http.StatusConflict, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrDuplicateKey, response.Error.Code)
	assert.Equal(t, "Unit code already exists", response.Error.Message)
}

func TestInternalServerError(t *testing.T) {
	c, w := setupTestContext()

	testErr := errors.New("database connection failed")
	InternalServerError(c, "An unexpected error occurred", testErr)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrInternalServer, response.Error.Code)
	assert.Equal(t, "An unexpected error occurred", response.Error.Message)
	assert.Nil(t, response.Error.Details)
}

func TestValidationError(t *testing.T) {
	c, w := setupTestContext()

	type generateRequest struct {
		Month int `validate:"gte=1,lte=12"`
		Year  int `validate:"required,gte=1000,lte=9999"`
	}

	validate := validator.New()
	err := validate.Struct(generateRequest{Month: 13})
	require.Error(t, err, "Expected validation to fail")

	validationErrors, ok := err.(validator.ValidationErrors)
	require.True(t, ok, "Expected validator.ValidationErrors")

	ValidationError(c, validationErrors)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrValidation, response.Error.Code)
	assert.Equal(t, "Validation failed for one or more fields", response.Error.Message)
	assert.NotNil(t, response.Error.Details)

	_, hasMonth := response.Error.Details["Month"]
	_, hasYear := response.Error.Details["Year"]
	assert.True(t, hasMonth || hasYear, "Expected at least one validation error field")
}

func TestFormatValidationError(t *testing.T) {
	tests := []struct {
		tag      string
		param    string
		expected string
	}{
		{tag: "required", expected: "This field is required"},
		{tag: "min", param: "5", expected: "Value is too short or small (minimum: 5)"},
		{tag: "max", param: "100", expected: "Value is too long or large (maximum: 100)"},
		{tag: "gt", param: "0", expected: "Must be greater than 0"},
		{tag: "gte", param: "1", expected: "Must be greater than or equal to 1"},
		{tag: "lt", param: "100", expected: "Must be less than 100"},
		{tag: "lte", param: "12", expected: "Must be less than or equal to 12"},
		{tag: "oneof", param: "available leased", expected: "Must be one of: available leased"},
		{tag: "datetime", param: "2006-01-02", expected: "Must be a calendar date in 2006-01-02 format"},
		{tag: "unknown_tag", expected: "Validation failed for tag: unknown_tag"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			mockErr := &mockFieldError{tag: tt.tag, param: tt.param}
			assert.Equal(t, tt.expected, formatValidationError(mockErr))
		})
	}
}

func TestErrorResponseWithoutContext(t *testing.T) {
	// Error helpers must work without logger or request ID in context.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	NotFound(c, "Charge not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrNotFound, response.Error.Code)
	assert.Empty(t, response.Error.RequestID)
}

// mockFieldError is a minimal validator.FieldError for exercising
// formatValidationError.
type mockFieldError struct {
	tag   string
	param string
}

func (m *mockFieldError) Tag() string                    { return m.tag }
func (m *mockFieldError) ActualTag() string              { return m.tag }
func (m *mockFieldError) Namespace() string              { return "" }
func (m *mockFieldError) StructNamespace() string        { return "" }
func (m *mockFieldError) Field() string                  { return "TestField" }
func (m *mockFieldError) StructField() string            { return "TestField" }
func (m *mockFieldError) Value() interface{}             { return nil }
func (m *mockFieldError) Param() string                  { return m.param }
func (m *mockFieldError) Kind() reflect.Kind             { return reflect.String }
func (m *mockFieldError) Type() reflect.Type             { return nil }
func (m *mockFieldError) Translate(ut.Translator) string { return "" }
func (m *mockFieldError) Error() string                  { return "" }
