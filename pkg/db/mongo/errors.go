package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	apperrors "lanebook/pkg/errors"
)

// IsUnavailable reports whether err is a transient store failure:
// connectivity loss, a driver timeout, or a server error the driver
// labels retryable. Schema and logic errors are not transient.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}

	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.HasErrorLabel("RetryableReadError") ||
			serverErr.HasErrorLabel("RetryableWriteError") ||
			serverErr.HasErrorLabel("TransientTransactionError")
	}
	return false
}

// StoreError maps a store failure onto the application taxonomy.
// Transient outages surface as SERVICE_UNAVAILABLE so callers may
// retry; everything else is INTERNAL_ERROR with the given message.
func StoreError(message string, err error) *apperrors.AppError {
	if IsUnavailable(err) {
		return apperrors.Unavailable("The booking store", err)
	}
	return apperrors.Internal(message, err)
}
