package projections

import (
	"context"
	"strings"

	domainGrade "schooladmin/internal/domain/grade"
)

// GetStudentGradesQuery carries input for the grade detail projection.
type GetStudentGradesQuery struct {
	StudentID string
}

// GetStudentGradesDeps holds dependencies for the grade detail projection.
type GetStudentGradesDeps struct {
	SheetStore SheetStore
}

// QueryGetStudentGrades loads a student's score sheet and summarises it.
// PRE: none
// POST: Returns domainGrade.ErrSheetNotFound for unknown or blank ids
func QueryGetStudentGrades(ctx context.Context, query GetStudentGradesQuery, deps GetStudentGradesDeps) (domainGrade.Summary, error) {
	id := strings.TrimSpace(query.StudentID)
	if id == "" {
		return domainGrade.Summary{}, domainGrade.ErrSheetNotFound
	}
	sheet, err := deps.SheetStore.GetByStudentID(ctx, id)
	if err != nil {
		return domainGrade.Summary{}, err
	}
	return domainGrade.Summarize(sheet), nil
}
