// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nomur/internal/core/apperror"
	"nomur/internal/infrastructure/http/v1/dto"
	"nomur/internal/infrastructure/storage/postgres"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates the JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers the error on the Gin context and aborts. The actual
// JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// OK sends the success envelope with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	response := dto.Envelope{Code: 0, Message: "OK", Data: data}
	h.completeIdempotency(c, http.StatusOK, response)
	c.JSON(http.StatusOK, response)
}

// Message sends the success envelope without data.
func (h *BaseHandler) Message(c *gin.Context, message string) {
	response := dto.Envelope{Code: 0, Message: message}
	h.completeIdempotency(c, http.StatusOK, response)
	c.JSON(http.StatusOK, response)
}

// completeIdempotency stores the success response under the request's
// idempotency key so retries replay it instead of re-running the handler.
func (h *BaseHandler) completeIdempotency(c *gin.Context, statusCode int, response any) {
	key, exists := c.Get("idempotency_key")
	if !exists {
		return
	}
	if store, ok := c.Get("idempotency_store"); ok {
		_ = store.(*postgres.IdempotencyStore).CompleteKey(c.Request.Context(), key.(string), statusCode, "application/json", response)
	}
}
