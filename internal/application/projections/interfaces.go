package projections

import (
	"context"

	"schooladmin/internal/adapters/gateway"
	domainGrade "schooladmin/internal/domain/grade"
)

// RosterLister fetches one roster collection.
type RosterLister interface {
	List(ctx context.Context) (gateway.ListResult, error)
}

// SheetStore interface for score sheet queries.
type SheetStore interface {
	GetByStudentID(ctx context.Context, studentID string) (domainGrade.Sheet, error)
}
