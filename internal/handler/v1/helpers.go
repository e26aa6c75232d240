package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/contact"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/insurer"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/inventory"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/medication"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/provider"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/domain/report"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/handler/middleware"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, APIResponse[any]{Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, medication.ErrMedicationNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, insurer.ErrInsurerNotFound),
		errors.Is(err, insurer.ErrPlanNotFound),
		errors.Is(err, provider.ErrProviderNotFound),
		errors.Is(err, provider.ErrServiceNotFound),
		errors.Is(err, inventory.ErrItemNotFound),
		errors.Is(err, report.ErrReportNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, patient.ErrPatientAlreadyExists),
		errors.Is(err, insurer.ErrInsurerAlreadyExists),
		errors.Is(err, provider.ErrProviderAlreadyExists),
		errors.Is(err, inventory.ErrItemAlreadyExists),
		errors.Is(err, domain.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, report.ErrNotReady),
		errors.Is(err, report.ErrProcessing),
		errors.Is(err, report.ErrNotFailed),
		errors.Is(err, report.ErrNotPending),
		errors.Is(err, report.ErrNotProcessing),
		errors.Is(err, report.ErrCannotFail),
		errors.Is(err, insurer.ErrHasActivePlans),
		errors.Is(err, insurer.ErrNotActive),
		errors.Is(err, provider.ErrNotActive),
		errors.Is(err, provider.ErrNotPending),
		errors.Is(err, provider.ErrPendingDeactivation),
		errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrRescheduleCancelled),
		errors.Is(err, medication.ErrAlreadyInactive),
		errors.Is(err, patient.ErrPatientInactive),
		errors.Is(err, service.ErrPatientNotActive),
		errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, inventory.ErrItemExpired),
		errors.Is(err, domain.ErrUserAlreadyActive),
		errors.Is(err, domain.ErrUserInactive):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "INVALID_STATE"})

	case errors.Is(err, document.ErrInvalidDocument),
		errors.Is(err, contact.ErrInvalidEmail),
		errors.Is(err, contact.ErrInvalidPhone),
		errors.Is(err, patient.ErrNameTooShort),
		errors.Is(err, patient.ErrInvalidDateOfBirth),
		errors.Is(err, patient.ErrImplausibleAge),
		errors.Is(err, patient.ErrInvalidGender),
		errors.Is(err, medication.ErrInvalidFrequency),
		errors.Is(err, medication.ErrNameTooShort),
		errors.Is(err, medication.ErrDosageRequired),
		errors.Is(err, medication.ErrScheduleRequired),
		errors.Is(err, medication.ErrEndBeforeStart),
		errors.Is(err, medication.ErrStartDateRequired),
		errors.Is(err, medication.ErrInvalidTimeOfDay),
		errors.Is(err, appointment.ErrScheduledInPast),
		errors.Is(err, appointment.ErrInvalidDuration),
		errors.Is(err, appointment.ErrTitleTooShort),
		errors.Is(err, appointment.ErrLocationRequired),
		errors.Is(err, insurer.ErrInvalidPlanType),
		errors.Is(err, insurer.ErrInvalidType),
		errors.Is(err, provider.ErrInvalidRating),
		errors.Is(err, inventory.ErrNonPositiveQuantity),
		errors.Is(err, inventory.ErrNegativeQuantity),
		errors.Is(err, inventory.ErrReasonRequired),
		errors.Is(err, report.ErrInvalidType),
		errors.Is(err, report.ErrInvalidPeriod),
		errors.Is(err, report.ErrInvalidFormat),
		errors.Is(err, report.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrPatientLinkRequired),
		errors.Is(err, service.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: "ACCOUNT_INACTIVE"})

	case errors.Is(err, service.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: "TOKEN_REVOKED"})

	case errors.Is(err, service.ErrAccountLocked):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "account temporarily locked",
			Code:  "ACCOUNT_LOCKED",
		})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		if fields := fieldErrors(err); fields != nil {
			c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "validation failed", Fields: fields})
			return false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

// parseQueryUUID returns nil when the key is absent; ok is false after a 400 was written.
func parseQueryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+key+": must be a valid UUID")
		return nil, false
	}
	return &id, true
}

func parseQueryBool(c *gin.Context, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// parseQueryDate reads a YYYY-MM-DD value in UTC; ok is false after a 400 was written.
func parseQueryDate(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+key+": expected YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

func actorOrAbort(c *gin.Context) (service.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return service.Actor{}, false
	}
	return actor, true
}
