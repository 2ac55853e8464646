package web

import (
	"net/http"

	domain "schooladmin/internal/domain/roster"
)

// registerRoutes adds every console route to mux. Roster pages are
// registered per kind so their literal prefixes never overlap /api/.
func (c *Console) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleDashboard)
	mux.HandleFunc("GET /students/{id}/grades", c.handleStudentGrades)

	for _, kind := range domain.Kinds {
		base := "/" + kind.Plural()
		mux.HandleFunc("GET "+base, c.handleRosterPage(kind))
		mux.HandleFunc("GET "+base+"/export.xlsx", c.handleExport(kind))
		mux.HandleFunc("POST "+base+"/{id}/edit", c.handleEdit(kind))
		mux.HandleFunc("POST "+base+"/{id}/delete", c.handleDelete(kind))
	}

	mux.HandleFunc("GET /api/dashboard", c.handleAPIDashboard)
	mux.HandleFunc("GET /api/perf", c.handleAPIPerf)
	mux.HandleFunc("GET /api/grades/{id}", c.handleAPIGrades)
	mux.HandleFunc("GET /api/{kind}", c.handleAPIList)
	mux.HandleFunc("PATCH /api/{kind}/{id}", c.handleAPIEdit)
	mux.HandleFunc("DELETE /api/{kind}/{id}", c.handleAPIDelete)
}
