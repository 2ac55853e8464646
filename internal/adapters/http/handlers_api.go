package web

import (
	"net/http"
	"strconv"
	"time"

	"schooladmin/internal/application/listutil"
	"schooladmin/internal/application/projections"
	appRoster "schooladmin/internal/application/roster"
	domain "schooladmin/internal/domain/roster"
)

// DefaultPerfWindow is how far back /api/perf aggregates by default.
const DefaultPerfWindow = 15 * time.Minute

// editRequest is the body of PATCH /api/{kind}/{id}.
type editRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// apiScreen resolves the {kind} path value to a screen.
func (c *Console) apiScreen(w http.ResponseWriter, r *http.Request) (domain.Kind, *appRoster.Screen, bool) {
	kind, err := domain.ParseKind(r.PathValue("kind"))
	if err != nil || c.screen(kind) == nil {
		jsonError(w, http.StatusNotFound, "unknown roster")
		return "", nil, false
	}
	return kind, c.screen(kind), true
}

// handleAPIList returns the filtered page as JSON.
// Query params: q, status, page, refresh=1.
func (c *Console) handleAPIList(w http.ResponseWriter, r *http.Request) {
	kind, screen, ok := c.apiScreen(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	fp := listutil.ParseFilterParams(q)
	pp := listutil.ParsePageParams(q, 0)

	var err error
	if fp.Refresh {
		err = screen.Load(r.Context())
	} else {
		err = screen.EnsureLoaded(r.Context())
	}
	if err != nil {
		status, msg := errorStatus(kind, err)
		jsonError(w, status, msg)
		return
	}
	screen.ApplyFilter(domain.Query{Search: fp.Search, Status: fp.Status})
	screen.SetPage(pp.Page)
	writeJSON(w, http.StatusOK, screen.Snapshot())
}

// handleAPIEdit applies {"field", "value"} to a record and returns it.
func (c *Console) handleAPIEdit(w http.ResponseWriter, r *http.Request) {
	kind, screen, ok := c.apiScreen(w, r)
	if !ok {
		return
	}
	var body editRequest
	if err := strictDecode(r, &body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id := domain.ID(r.PathValue("id"))
	intent := domain.NewEditIntent(kind, id, domain.Field(body.Field), body.Value)
	if err := screen.Edit(r.Context(), intent); err != nil {
		status, msg := errorStatus(kind, err)
		jsonError(w, status, msg)
		return
	}
	rec, _ := screen.Get(id)
	writeJSON(w, http.StatusOK, rec)
}

// handleAPIDelete removes a record. The caller confirms with ?confirm=yes.
func (c *Console) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	kind, screen, ok := c.apiScreen(w, r)
	if !ok {
		return
	}
	intent := domain.NewDeleteIntent(kind, domain.ID(r.PathValue("id")), r.URL.Query().Get("confirm") == "yes")
	if err := screen.Delete(r.Context(), intent); err != nil {
		status, msg := errorStatus(kind, err)
		jsonError(w, status, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAPIDashboard returns the dashboard aggregation as JSON.
func (c *Console) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetDashboard(r.Context(), c.Dashboard)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAPIGrades returns a student's grade summary as JSON.
func (c *Console) handleAPIGrades(w http.ResponseWriter, r *http.Request) {
	summary, err := projections.QueryGetStudentGrades(r.Context(),
		projections.GetStudentGradesQuery{StudentID: r.PathValue("id")},
		projections.GetStudentGradesDeps{SheetStore: c.Sheets},
	)
	if err != nil {
		status, msg := errorStatus("", err)
		jsonError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleAPIPerf returns timing aggregates. Query params: window (duration,
// default 15m), top (default 10).
func (c *Console) handleAPIPerf(w http.ResponseWriter, r *http.Request) {
	if c.Collector == nil {
		jsonError(w, http.StatusNotFound, "timing is disabled")
		return
	}
	window := DefaultPerfWindow
	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			jsonError(w, http.StatusBadRequest, "invalid window")
			return
		}
		window = d
	}
	top := 10
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			jsonError(w, http.StatusBadRequest, "invalid top")
			return
		}
		top = n
	}
	writeJSON(w, http.StatusOK, c.Collector.Snapshot(time.Now().Add(-window), top))
}
