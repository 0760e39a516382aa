package upload

import "context"

// Repository persists upload records.
type Repository interface {
	Insert(ctx context.Context, r *Record) error

	// FindByFilename returns the original record for a filename, or nil
	// when the filename is unused.
	FindByFilename(ctx context.Context, filename string) (*Record, error)
}
