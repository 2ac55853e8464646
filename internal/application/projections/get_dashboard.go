package projections

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	domain "schooladmin/internal/domain/roster"
)

// PreviewSize is how many records of each roster the dashboard shows.
const PreviewSize = 3

// Stat card titles.
const (
	StatTotalUsers        = "Total Users"
	StatActiveCourses     = "Active Courses"
	StatRegisteredCourses = "Registered Courses"
	StatTotalTeachers     = "Total Teachers"
)

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Courses  RosterLister
	Students RosterLister
	Teachers RosterLister
}

// StatCard is one headline number on the dashboard.
type StatCard struct {
	Title string `json:"title"`
	Value int    `json:"value"`
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Stats    []StatCard      `json:"stats"`
	Courses  []domain.Record `json:"courses"`
	Students []domain.Record `json:"students"`
	Teachers []domain.Record `json:"teachers"`
	// Failed lists the rosters that could not be fetched.
	Failed []domain.Kind `json:"failed,omitempty"`
}

// Stat returns the value of the card with title, or 0.
func (r DashboardResult) Stat(title string) int {
	for _, s := range r.Stats {
		if s.Title == title {
			return s.Value
		}
	}
	return 0
}

type dashboardSlot struct {
	kind    domain.Kind
	lister  RosterLister
	total   int
	records []domain.Record
	failed  bool
}

// QueryGetDashboard fetches the three rosters concurrently and aggregates
// the headline stats and previews.
// PRE: every lister in deps is non-nil
// POST: A failed roster is logged, listed in Failed and contributes zero to
// the stats. The other rosters are unaffected.
// INVARIANT: Total Users is computed only after every fetch has finished
func QueryGetDashboard(ctx context.Context, deps GetDashboardDeps) (DashboardResult, error) {
	slots := []*dashboardSlot{
		{kind: domain.KindCourses, lister: deps.Courses},
		{kind: domain.KindStudents, lister: deps.Students},
		{kind: domain.KindTeachers, lister: deps.Teachers},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, slot := range slots {
		g.Go(func() error {
			res, err := slot.lister.List(gctx)
			if err != nil {
				slog.Error("dashboard_fetch_failed", "kind", slot.kind, "error", err)
				slot.failed = true
				return nil
			}
			recs, skipped := domain.NormalizeAll(slot.kind, res.Records)
			if skipped > 0 {
				slog.Warn("roster_records_skipped", "kind", slot.kind, "skipped", skipped)
			}
			slot.total = res.Total
			slot.records = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DashboardResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return DashboardResult{}, err
	}

	courses, students, teachers := slots[0], slots[1], slots[2]
	active := 0
	for _, c := range courses.records {
		if strings.EqualFold(c.RecordStatus(), "active") {
			active++
		}
	}

	result := DashboardResult{
		Stats: []StatCard{
			{Title: StatTotalUsers, Value: students.total + teachers.total},
			{Title: StatActiveCourses, Value: active},
			{Title: StatRegisteredCourses, Value: courses.total},
			{Title: StatTotalTeachers, Value: teachers.total},
		},
		Courses:  preview(courses.records),
		Students: preview(students.records),
		Teachers: preview(teachers.records),
	}
	for _, slot := range slots {
		if slot.failed {
			result.Failed = append(result.Failed, slot.kind)
		}
	}
	return result, nil
}

func preview(recs []domain.Record) []domain.Record {
	if len(recs) > PreviewSize {
		recs = recs[:PreviewSize]
	}
	return append([]domain.Record{}, recs...)
}
