package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// NoContent writes an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error maps err to an HTTP status. AppErrors keep their code and message,
// anything else is reported as an internal error without details.
func Error(c *gin.Context, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	abort(c, StatusFor(appErr.Kind), appErr.Code, appErr.Message)
}

// StatusFor returns the HTTP status used for an error kind.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindInvalidState:
		return http.StatusBadRequest
	case domain.KindNotFound, domain.KindForbidden:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// BadRequest writes a 400 validation error.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// BindError writes a 400 for an error returned by gin binding.
func BindError(c *gin.Context, err error) {
	BadRequest(c, ValidationMessage(err))
}

// TooManyRequests writes a 429.
func TooManyRequests(c *gin.Context) {
	abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
}

// ValidationMessage flattens validator errors into "field: rule" pairs.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, APIResponse{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}
