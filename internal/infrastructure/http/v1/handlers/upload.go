package handlers

import (
	"github.com/gin-gonic/gin"

	"nomur/internal/domain/upload"
	"nomur/internal/infrastructure/http/v1/dto"
)

// UploadHandler serves upload bookkeeping: duplicate detection and
// record registration.
type UploadHandler struct {
	*BaseHandler
	uploads *upload.Service
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(base *BaseHandler, uploads *upload.Service) *UploadHandler {
	return &UploadHandler{BaseHandler: base, uploads: uploads}
}

// CheckDuplicate handles POST /api/upload/check-duplicate.
func (h *UploadHandler) CheckDuplicate(c *gin.Context) {
	var req dto.CheckDuplicateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	record, err := h.uploads.CheckDuplicate(c.Request.Context(), req.Filename)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{
		"isDuplicate":    record != nil,
		"originalRecord": record,
	})
}

// Register handles POST /api/upload/records.
func (h *UploadHandler) Register(c *gin.Context) {
	var r upload.Record
	if !h.BindJSON(c, &r) {
		return
	}

	created, err := h.uploads.Register(c.Request.Context(), &r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, created)
}
