package gradebook

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "schooladmin/internal/domain/grade"
)

// MemorySource implements Store over an in-process map of sheets.
type MemorySource struct {
	mu     sync.RWMutex
	sheets map[string]domain.Sheet
}

// NewMemorySource creates a MemorySource holding the given sheets.
// PRE: every sheet passes Validate
// POST: Later sheets with a duplicate StudentID replace earlier ones
func NewMemorySource(sheets ...domain.Sheet) (*MemorySource, error) {
	m := &MemorySource{sheets: make(map[string]domain.Sheet, len(sheets))}
	for _, s := range sheets {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.StudentID, err)
		}
		m.sheets[s.StudentID] = s
	}
	return m, nil
}

// NewSampleSource returns a MemorySource seeded with SampleSheets.
func NewSampleSource() *MemorySource {
	m, err := NewMemorySource(SampleSheets()...)
	if err != nil {
		panic(err)
	}
	return m
}

// GetByStudentID retrieves the sheet for a student.
// PRE: none
// POST: Returns domain.ErrSheetNotFound when no sheet exists
func (m *MemorySource) GetByStudentID(ctx context.Context, studentID string) (domain.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sheet{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sheets[studentID]
	if !ok {
		return domain.Sheet{}, domain.ErrSheetNotFound
	}
	return s, nil
}

// List returns every sheet ordered by student ID.
func (m *MemorySource) List(ctx context.Context) ([]domain.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Sheet, 0, len(m.sheets))
	for _, s := range m.sheets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

// SampleSheets is the fixed gradebook the console ships with until the
// backend exposes scores.
func SampleSheets() []domain.Sheet {
	return []domain.Sheet{
		sample("1", "John Doe", "Introduction to Algebra", [2]int{9, 8}, [2]int{18, 20}),
		sample("2", "Jane Smith", "World History", [2]int{6, 5}, [2]int{14, 15}),
		sample("3", "Mike Johnson", "Physics 101", [2]int{10, 9}, [2]int{20, 19}),
		sample("4", "Emily Davis", "Introduction to Algebra", [2]int{4, 5}, [2]int{10, 8}),
	}
}

func sample(id, name, course string, quizzes, assignments [2]int) domain.Sheet {
	return domain.Sheet{
		StudentID: id,
		Name:      name,
		Course:    course,
		Quizzes: []domain.Item{
			{Title: "Quiz 1", Score: quizzes[0], Total: 10},
			{Title: "Quiz 2", Score: quizzes[1], Total: 10},
		},
		Assignments: []domain.Item{
			{Title: "Assignment 1", Score: assignments[0], Total: 20},
			{Title: "Assignment 2", Score: assignments[1], Total: 20},
		},
	}
}
