package grade

import (
	"errors"
	"fmt"
	"math"
)

// Progress bands shown next to a percentage.
const (
	BandGood = "good"
	BandFair = "fair"
	BandPoor = "poor"
)

// Band thresholds, inclusive.
const (
	GoodThreshold = 80
	FairThreshold = 50
)

// TotalLabel titles the trailing row of each section.
const TotalLabel = "Total"

// Domain errors
var (
	ErrSheetNotFound   = errors.New("grade sheet not found")
	ErrEmptyStudentID  = errors.New("student ID is required")
	ErrNegativeScore   = errors.New("score and total cannot be negative")
	ErrScoreAboveTotal = errors.New("score cannot exceed total")
)

// Item is one graded piece of work.
type Item struct {
	Title string `json:"title"`
	Score int    `json:"score"`
	Total int    `json:"total"`
}

// Validate checks if the Item has valid data.
// PRE: Item struct is populated
// POST: Returns nil if valid, error otherwise
func (i Item) Validate() error {
	if i.Score < 0 || i.Total < 0 {
		return ErrNegativeScore
	}
	if i.Score > i.Total {
		return ErrScoreAboveTotal
	}
	return nil
}

// Sheet is a student's score sheet for one course.
type Sheet struct {
	StudentID   string `json:"studentId"`
	Name        string `json:"name"`
	Course      string `json:"course"`
	Quizzes     []Item `json:"quizzes"`
	Assignments []Item `json:"assignments"`
}

// Validate checks if the Sheet has valid data.
// PRE: Sheet struct is populated
// POST: Returns nil if valid, error otherwise
func (s Sheet) Validate() error {
	if s.StudentID == "" {
		return ErrEmptyStudentID
	}
	for _, items := range [][]Item{s.Quizzes, s.Assignments} {
		for _, it := range items {
			if err := it.Validate(); err != nil {
				return fmt.Errorf("%s: %w", it.Title, err)
			}
		}
	}
	return nil
}

// Row is a display row of a summary table.
type Row struct {
	Title        string `json:"title"`
	Score        int    `json:"score"`
	Total        int    `json:"total"`
	ScoreDisplay string `json:"scoreDisplay"`
	IsTotal      bool   `json:"isTotal"`
}

// Section is one table of a summary (quizzes or assignments).
type Section struct {
	Rows    []Row  `json:"rows"`
	Score   int    `json:"score"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
	Band    string `json:"band"`
}

// Summary is the computed view of a Sheet.
type Summary struct {
	StudentID   string  `json:"studentId"`
	Name        string  `json:"name"`
	Course      string  `json:"course"`
	Quizzes     Section `json:"quizzes"`
	Assignments Section `json:"assignments"`
	Overall     int     `json:"overall"`
	OverallBand string  `json:"overallBand"`
}

// Summarize computes per-section totals and percentages for a sheet.
// PRE: none
// POST: Each section ends with a Total row; percentages are rounded half-up
// and are 0 when the section's maximum is 0
func Summarize(s Sheet) Summary {
	quizzes := summarizeSection(s.Quizzes)
	assignments := summarizeSection(s.Assignments)
	overall := Percent(quizzes.Score+assignments.Score, quizzes.Total+assignments.Total)
	return Summary{
		StudentID:   s.StudentID,
		Name:        s.Name,
		Course:      s.Course,
		Quizzes:     quizzes,
		Assignments: assignments,
		Overall:     overall,
		OverallBand: Band(overall),
	}
}

func summarizeSection(items []Item) Section {
	sec := Section{Rows: make([]Row, 0, len(items)+1)}
	for _, it := range items {
		sec.Score += it.Score
		sec.Total += it.Total
		sec.Rows = append(sec.Rows, Row{
			Title:        it.Title,
			Score:        it.Score,
			Total:        it.Total,
			ScoreDisplay: ScoreDisplay(it.Score, it.Total),
		})
	}
	sec.Rows = append(sec.Rows, Row{
		Title:        TotalLabel,
		Score:        sec.Score,
		Total:        sec.Total,
		ScoreDisplay: ScoreDisplay(sec.Score, sec.Total),
		IsTotal:      true,
	})
	sec.Percent = Percent(sec.Score, sec.Total)
	sec.Band = Band(sec.Percent)
	return sec
}

// ScoreDisplay formats a score as "score/total".
func ScoreDisplay(score, total int) string {
	return fmt.Sprintf("%d/%d", score, total)
}

// Percent returns score/total as a whole percentage, rounded half-up.
func Percent(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(score)*100/float64(total) + 0.5))
}

// Band classifies a percentage for the progress bar colour.
func Band(pct int) string {
	switch {
	case pct >= GoodThreshold:
		return BandGood
	case pct >= FairThreshold:
		return BandFair
	default:
		return BandPoor
	}
}
