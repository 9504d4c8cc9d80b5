package handler

import (
	"errors"
	"net/http"

	"employee_manager/internal/service"
	"employee_manager/internal/upload"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// statusFor maps a service error to its HTTP status; 0 means unexpected
func statusFor(err error) int {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidEmployeeID),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, upload.ErrInvalidFileType),
		errors.Is(err, upload.ErrFileTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUserAlreadyExists):
		return http.StatusConflict
	}
	return 0
}

// handleError writes the envelope for err. Unexpected errors are logged and
// answered with fallback so no internal detail reaches the client.
func handleError(c *gin.Context, log *zap.Logger, err error, fallback string) {
	if status := statusFor(err); status != 0 {
		respondError(c, status, err.Error())
		return
	}
	_ = c.Error(err)
	log.Error(fallback, zap.Error(err), zap.String("path", c.FullPath()))
	respondError(c, http.StatusInternalServerError, fallback)
}
