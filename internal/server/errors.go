package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authdomain "github.com/inkvoice/inkvoice/internal/auth/domain"
	deliverydomain "github.com/inkvoice/inkvoice/internal/delivery/domain"
	invoicedomain "github.com/inkvoice/inkvoice/internal/invoice/domain"
	"github.com/inkvoice/inkvoice/internal/providers/pdf"
	"github.com/inkvoice/inkvoice/pkg/db"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrInvalidEmail):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "request", Code: "invalid_request", Message: "invalid request"},
			},
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidToken):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, invoicedomain.ErrAlreadySent):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "invoice already sent",
		}
	case errors.Is(err, ErrConflict), db.IsDuplicateKeyErr(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case errors.Is(err, authdomain.ErrTooManyLogins):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many login requests",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, pdf.ErrRenderFailure):
		return http.StatusInternalServerError, errorPayload{
			Type:    "render_failure",
			Message: "pdf generation failed",
		}
	case errors.Is(err, deliverydomain.ErrDeliveryFailure):
		return http.StatusInternalServerError, errorPayload{
			Type:    "delivery_failure",
			Message: "email delivery failed",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, deliverydomain.ErrMissingProfile),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog buckets an error for the request log without
// leaking its message.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
