package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nomur/internal/core/apperror"
	"nomur/internal/infrastructure/storage/postgres"
	"nomur/pkg/logger"
)

// ErrorHandler transforms errors into the response envelope the clients
// expect: {code, message, data?} where code is the HTTP-ish integer of
// the legacy contract and 0 means success. Handlers never write error
// JSON themselves; they abort with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}

			body := gin.H{
				"code":    appErr.HTTPStatus,
				"message": appErr.Message,
			}
			if len(appErr.Details) > 0 {
				body["data"] = appErr.Details
			}
			failIdempotency(c, appErr.HTTPStatus, body)
			c.JSON(appErr.HTTPStatus, body)
			return
		}

		// Unknown error: log and return a generic message.
		logger.Error(c.Request.Context(), "unhandled error", "error", err)
		body := gin.H{
			"code":    http.StatusInternalServerError,
			"message": "internal server error",
		}
		failIdempotency(c, http.StatusInternalServerError, body)
		c.JSON(http.StatusInternalServerError, body)
	}
}

// failIdempotency stores the error response under the request's
// idempotency key (best-effort) so retries replay it.
func failIdempotency(c *gin.Context, status int, body any) {
	key, exists := c.Get("idempotency_key")
	if !exists {
		return
	}
	store, ok := c.Get("idempotency_store")
	if !ok {
		return
	}
	if s, ok := store.(*postgres.IdempotencyStore); ok && s != nil {
		_ = s.FailKey(c.Request.Context(), key.(string), status, "application/json", body)
	}
}
