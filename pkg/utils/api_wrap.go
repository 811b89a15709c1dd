package utils

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceIDOf(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceIDOf(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Error:   message,
		TraceID: traceIDOf(c),
	})
}

// HandleServiceError converts a service error into the matching HTTP reply.
// Upstream and database details are logged, never returned.
func HandleServiceError(c *gin.Context, err error) {
	var rateErr *RateLimitError

	switch {
	case errors.Is(err, ErrUnauthenticated):
		RespondError(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrInvalidToken):
		RespondError(c, http.StatusUnauthorized, "Invalid or expired sign-in link")
	case errors.Is(err, ErrValidation):
		RespondError(c, http.StatusBadRequest, validationMessage(err))
	case errors.As(err, &rateErr):
		if rateErr.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rateErr.RetryAfter.Seconds()))))
		}
		unit := rateErr.Unit
		if unit == "" {
			unit = "requests"
		}
		RespondError(c, http.StatusTooManyRequests, fmt.Sprintf(
			"Rate limit exceeded. Maximum %d %s per %s.", rateErr.Limit, unit, humanWindow(rateErr)))
	case errors.Is(err, ErrRateLimited):
		RespondError(c, http.StatusTooManyRequests, "Rate limit exceeded")
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrNotFound):
		RespondError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, "Email is already in use")
	case errors.Is(err, ErrUpstream), errors.Is(err, ErrDatabaseError):
		zap.L().Error("upstream failure", zap.String("trace_id", traceIDOf(c)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		zap.L().Error("unhandled service error", zap.String("trace_id", traceIDOf(c)), zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// validationMessage strips the sentinel prefix so clients see only the detail.
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
	if msg == ErrValidation.Error() {
		return "Invalid request format"
	}
	return msg
}

func humanWindow(e *RateLimitError) string {
	switch {
	case e.Window == time.Hour:
		return "hour"
	case e.Window > time.Hour && e.Window%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(e.Window.Hours()))
	case e.Window >= time.Minute && e.Window%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(e.Window.Minutes()))
	default:
		return e.Window.String()
	}
}
