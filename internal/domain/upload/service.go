package upload

import (
	"context"
	"fmt"
	"time"

	"nomur/internal/core/apperror"
	"nomur/internal/core/id"
	"nomur/pkg/logger"
)

// Service provides duplicate checks and registration for uploaded proof
// files.
type Service struct {
	repo Repository
}

// NewService creates a new upload service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CheckDuplicate reports whether a filename is already registered,
// returning the original record when it is.
func (s *Service) CheckDuplicate(ctx context.Context, filename string) (*Record, error) {
	if filename == "" {
		return nil, apperror.NewValidation("filename is required")
	}
	return s.repo.FindByFilename(ctx, filename)
}

// Register records a new upload. A reused filename is rejected with a
// duplicate error carrying the original record.
func (s *Service) Register(ctx context.Context, r *Record) (*Record, error) {
	if r.Filename == "" {
		return nil, apperror.NewValidation("filename is required")
	}

	existing, err := s.repo.FindByFilename(ctx, r.Filename)
	if err != nil {
		return nil, fmt.Errorf("check filename: %w", err)
	}
	if existing != nil {
		return nil, apperror.NewDuplicate("file already registered").
			WithDetail("originalRecord", existing)
	}

	if r.ID == "" {
		r.ID = id.New().String()
	}
	r.CreatedAt = time.Now().UTC()

	if err := s.repo.Insert(ctx, r); err != nil {
		return nil, fmt.Errorf("insert upload record: %w", err)
	}

	logger.Info(ctx, "upload recorded", "filename", r.Filename, "upload_type", r.UploadType)
	return r, nil
}
