package errors

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// HTTPStatus converts repo/service errors into an HTTP status code.
// Keeps handlers clean by centralizing error mapping.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrSkillNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrRequestNotFound),
		errors.Is(err, ErrSwapNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrSessionOverflow),
		errors.Is(err, ErrNotRequester),
		errors.Is(err, ErrNotRequestee):
		return http.StatusConflict

	case errors.Is(err, gorm.ErrDuplicatedKey), IsUniqueViolation(err):
		return http.StatusConflict

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout

	default:
		return http.StatusInternalServerError
	}
}

// IsUniqueViolation reports whether err is a uniqueness-constraint failure
// from the underlying engine. GORM only normalizes this for some dialects,
// so the SQLite/MySQL message text is checked as a fallback.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate entry")
}
