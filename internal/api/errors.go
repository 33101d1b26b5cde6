package api

import (
	"errors"
	"log"
	"net/http"

	"gymdesk/routine-admin/internal/notify"
	"gymdesk/routine-admin/internal/service"
	"gymdesk/routine-admin/internal/storage"

	"github.com/gin-gonic/gin"
)

// errorStatus maps service errors to HTTP status codes. Anything unknown is
// a store or provider failure.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, service.ErrInvalidWeekday),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrUnsupportedVideoType),
		errors.Is(err, service.ErrNoRecipient),
		errors.Is(err, service.ErrCannotDeleteSelf):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrAccountRemoved):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAccessDenied),
		errors.Is(err, service.ErrExerciseAccessDenied),
		errors.Is(err, service.ErrRegistrationClosed):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrRoutineNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, storage.ErrStorageDisabled),
		errors.Is(err, notify.ErrMailerDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// abortWithServiceError answers with the mapped status. Internal failures are
// logged and reported generically.
func abortWithServiceError(c *gin.Context, err error, action string) {
	code := errorStatus(err)
	if code == http.StatusInternalServerError {
		log.Printf("ERROR: %s failed: %v", action, err)
		abortWithError(c, code, "An unexpected error occurred while trying to "+action)
		return
	}
	abortWithError(c, code, err.Error())
}
