package adaptor

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"cinema-kiosk/internal/usecase"
	"cinema-kiosk/pkg/utils"

	"go.uber.org/zap"
)

// retryAfterSeconds is the Retry-After hint sent with 503 responses.
const retryAfterSeconds = 5

// handleServiceError maps usecase errors onto HTTP responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		verr     *usecase.ValidationError
		conflict *usecase.SeatConflictError
	)

	switch {
	case errors.As(err, &verr):
		log.Warn(operation+" validation failed",
			zap.String("message", verr.Message),
			zap.String("fields", utils.FormatValidationErrors(verr.Fields)),
			zap.String("operation", operation))
		var fields any
		if len(verr.Fields) > 0 {
			fields = verr.Fields
		}
		utils.ResponseBadRequest(w, verr.Message, fields)

	case errors.Is(err, usecase.ErrValidation):
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.As(err, &conflict):
		log.Info(operation+" failed - seats taken",
			zap.Strings("conflicting_seats", conflict.Seats),
			zap.String("operation", operation))
		utils.ResponseConflict(w, "Seats already reserved", map[string]any{
			"conflicting_seats": conflict.Seats,
		})

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrStorageUnavailable), errors.Is(err, context.DeadlineExceeded):
		log.Error(operation+" failed - storage unavailable",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseUnavailable(w, "Service temporarily unavailable, retry later", retryAfterSeconds)

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// parsePositiveInt returns defaultValue for empty, malformed or non-positive input.
func parsePositiveInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil || result < 1 {
		return defaultValue
	}
	return result
}
