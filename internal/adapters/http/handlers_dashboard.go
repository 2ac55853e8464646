package web

import (
	"errors"
	"net/http"

	"schooladmin/internal/application/projections"
	appRoster "schooladmin/internal/application/roster"
	domainGrade "schooladmin/internal/domain/grade"
	domain "schooladmin/internal/domain/roster"
)

// dashboardNote is shown under the stat cards.
const dashboardNote = `Figures are fetched live from the roster service.
Use **Refresh** on a roster page to reload it, or export the filtered view as a spreadsheet.`

// previewSection is one roster preview on the dashboard.
type previewSection struct {
	Kind  domain.Kind
	Title string
	Rows  []rowView
}

func previewRows(recs []domain.Record) []rowView {
	rows := make([]rowView, len(recs))
	for i, rec := range recs {
		rows[i] = newRowView(rec)
	}
	return rows
}

// handleDashboard renders the landing page.
func (c *Console) handleDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetDashboard(r.Context(), c.Dashboard)
	if err != nil {
		internalError(w, err)
		return
	}

	failures := make([]string, 0, len(result.Failed))
	for _, kind := range result.Failed {
		failures = append(failures, appRoster.FetchFailedMessage(kind))
	}

	renderTemplate(w, r, "dashboard.html", map[string]any{
		"Stats": result.Stats,
		"Sections": []previewSection{
			{Kind: domain.KindCourses, Title: "Courses", Rows: previewRows(result.Courses)},
			{Kind: domain.KindStudents, Title: "Students", Rows: previewRows(result.Students)},
			{Kind: domain.KindTeachers, Title: "Teachers", Rows: previewRows(result.Teachers)},
		},
		"Failures": failures,
		"Note":     dashboardNote,
	})
}

// handleStudentGrades renders a student's score sheet.
func (c *Console) handleStudentGrades(w http.ResponseWriter, r *http.Request) {
	summary, err := projections.QueryGetStudentGrades(r.Context(),
		projections.GetStudentGradesQuery{StudentID: r.PathValue("id")},
		projections.GetStudentGradesDeps{SheetStore: c.Sheets},
	)
	if errors.Is(err, domainGrade.ErrSheetNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "grades.html", map[string]any{
		"Summary": summary,
		"Sections": []struct {
			Title   string
			Section domainGrade.Section
		}{
			{"Quizzes", summary.Quizzes},
			{"Assignments", summary.Assignments},
		},
	})
}
