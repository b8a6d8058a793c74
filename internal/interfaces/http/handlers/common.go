package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/GeoCluster-Insight/pkg/errors"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps an error to its HTTP status and a stable JSON shape.
// Unexpected (untyped) errors are reported as a generic internal failure so
// internals never leak to the client.
func respondError(c *gin.Context, logger logging.Logger, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error("unexpected error", logging.Err(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    apperrors.ErrCodeInternal.String(),
			Message: "an internal error occurred",
		})
		return
	}

	status := apperrors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logging.String("code", appErr.Code.String()), logging.Err(err))
	} else {
		logger.Warn("request rejected", logging.String("code", appErr.Code.String()), logging.Err(err))
	}

	c.JSON(status, ErrorResponse{
		Code:    appErr.Code.String(),
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    apperrors.ErrCodeValidation.String(),
		Message: message,
	})
}
