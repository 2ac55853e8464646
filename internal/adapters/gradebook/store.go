package gradebook

import (
	"context"

	domain "schooladmin/internal/domain/grade"
)

// Store serves student score sheets.
type Store interface {
	GetByStudentID(ctx context.Context, studentID string) (domain.Sheet, error)
	List(ctx context.Context) ([]domain.Sheet, error)
}
