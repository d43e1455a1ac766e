package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	activitydomain "github.com/smallbiznis/relaycrm/internal/activity/domain"
	authdomain "github.com/smallbiznis/relaycrm/internal/auth/domain"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	contactdomain "github.com/smallbiznis/relaycrm/internal/contact/domain"
	dealdomain "github.com/smallbiznis/relaycrm/internal/deal/domain"
	notedomain "github.com/smallbiznis/relaycrm/internal/note/domain"
	tenantdomain "github.com/smallbiznis/relaycrm/internal/tenant/domain"
	"gorm.io/gorm"
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
	ErrForbidden      = errors.New("forbidden")
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

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidTenant),
		errors.Is(err, authdomain.ErrInvalidToken):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, notedomain.ErrNotAuthor):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, authdomain.ErrSubdomainTaken):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: notFoundMessage(err),
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
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

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isAuthValidationError(err),
		isCompanyValidationError(err),
		isContactValidationError(err),
		isDealValidationError(err),
		isActivityValidationError(err),
		isNoteValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, tenantdomain.ErrTenantRequired),
		errors.Is(err, tenantdomain.ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, companydomain.ErrInvalidTenant),
		errors.Is(err, contactdomain.ErrInvalidTenant),
		errors.Is(err, dealdomain.ErrInvalidTenant),
		errors.Is(err, activitydomain.ErrInvalidTenant),
		errors.Is(err, notedomain.ErrInvalidTenant),
		errors.Is(err, companydomain.ErrNotFound),
		errors.Is(err, contactdomain.ErrNotFound),
		errors.Is(err, contactdomain.ErrCompanyNotFound),
		errors.Is(err, dealdomain.ErrNotFound),
		errors.Is(err, dealdomain.ErrOwnerNotFound),
		errors.Is(err, dealdomain.ErrCompanyNotFound),
		errors.Is(err, dealdomain.ErrContactNotFound),
		errors.Is(err, activitydomain.ErrNotFound),
		errors.Is(err, activitydomain.ErrAssigneeNotFound),
		errors.Is(err, activitydomain.ErrCompanyNotFound),
		errors.Is(err, activitydomain.ErrContactNotFound),
		errors.Is(err, activitydomain.ErrDealNotFound),
		errors.Is(err, notedomain.ErrNotFound),
		errors.Is(err, notedomain.ErrAuthorNotFound),
		errors.Is(err, notedomain.ErrCompanyNotFound),
		errors.Is(err, notedomain.ErrContactNotFound),
		errors.Is(err, notedomain.ErrDealNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// notFoundMessage names the missing referenced entity so a caller can tell a
// bad foreign key apart from a missing primary resource.
func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, tenantdomain.ErrTenantRequired),
		errors.Is(err, tenantdomain.ErrNotFound),
		errors.Is(err, companydomain.ErrInvalidTenant),
		errors.Is(err, contactdomain.ErrInvalidTenant),
		errors.Is(err, dealdomain.ErrInvalidTenant),
		errors.Is(err, activitydomain.ErrInvalidTenant),
		errors.Is(err, notedomain.ErrInvalidTenant):
		return "tenant not found"
	case errors.Is(err, dealdomain.ErrOwnerNotFound):
		return "owner not found"
	case errors.Is(err, activitydomain.ErrAssigneeNotFound):
		return "assignee not found"
	case errors.Is(err, notedomain.ErrAuthorNotFound):
		return "author not found"
	case errors.Is(err, contactdomain.ErrCompanyNotFound),
		errors.Is(err, dealdomain.ErrCompanyNotFound),
		errors.Is(err, activitydomain.ErrCompanyNotFound),
		errors.Is(err, notedomain.ErrCompanyNotFound):
		return "company not found"
	case errors.Is(err, dealdomain.ErrContactNotFound),
		errors.Is(err, activitydomain.ErrContactNotFound),
		errors.Is(err, notedomain.ErrContactNotFound):
		return "contact not found"
	case errors.Is(err, activitydomain.ErrDealNotFound),
		errors.Is(err, notedomain.ErrDealNotFound):
		return "deal not found"
	default:
		return "not found"
	}
}

func isAuthValidationError(err error) bool {
	switch err {
	case authdomain.ErrInvalidName,
		authdomain.ErrInvalidSubdomain,
		authdomain.ErrInvalidEmail,
		authdomain.ErrInvalidPassword:
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
