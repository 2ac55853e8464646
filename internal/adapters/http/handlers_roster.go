package web

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"schooladmin/internal/adapters/export"
	"schooladmin/internal/application/listutil"
	domain "schooladmin/internal/domain/roster"
)

// rowView is one table row on a roster page.
type rowView struct {
	ID          domain.ID
	Name        string
	Initials    string
	Status      string
	Cells       []any
	Description string
	Confirm     string
	GradesURL   string
}

func newRowView(rec domain.Record) rowView {
	row := rowView{
		ID:       rec.RecordID(),
		Name:     rec.DisplayName(),
		Initials: rec.Initials(),
		Status:   rec.RecordStatus(),
		Cells:    export.Row(rec),
		Confirm:  domain.ConfirmMessage(rec),
	}
	switch r := rec.(type) {
	case *domain.CourseRecord:
		row.Description = r.Description
	case *domain.StudentRecord:
		row.GradesURL = fmt.Sprintf("/students/%s/grades", r.ID)
	}
	return row
}

// handleRosterPage renders one roster's list page.
// Query params: q, status, page, refresh=1.
func (c *Console) handleRosterPage(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen := c.screen(kind)
		if screen == nil {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		fp := listutil.ParseFilterParams(q)
		pp := listutil.ParsePageParams(q, 0)

		// A failed load has already notified the flash; the page renders empty.
		if fp.Refresh {
			_ = screen.Load(r.Context())
		} else {
			_ = screen.EnsureLoaded(r.Context())
		}
		screen.ApplyFilter(domain.Query{Search: fp.Search, Status: fp.Status})
		screen.SetPage(pp.Page)
		view := screen.Snapshot()

		rows := make([]rowView, len(view.Records))
		for i, rec := range view.Records {
			rows[i] = newRowView(rec)
		}

		renderTemplate(w, r, "roster.html", map[string]any{
			"Kind":         kind,
			"Title":        kind.Title(),
			"Singular":     kind.Singular(),
			"View":         view,
			"Rows":         rows,
			"Columns":      export.Columns(kind),
			"Search":       fp.Search,
			"Status":       fp.Status,
			"Statuses":     view.Statuses,
			"HasFilters":   !view.Query.IsEmpty(),
			"Flash":        c.Flash.Take(kind),
			"NamePrompt":   domain.PromptMessage(kind, domain.FieldName),
			"StatusPrompt": domain.PromptMessage(kind, domain.FieldStatus),
			"ReturnQuery":  r.URL.Query().Encode(),
		})
	}
}

// handleEdit applies a form edit and redirects back to the list.
// Form fields: field (name|status), value, return.
func (c *Console) handleEdit(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen := c.screen(kind)
		if screen == nil {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		intent := domain.NewEditIntent(kind, domain.ID(r.PathValue("id")), domain.Field(r.PostFormValue("field")), r.PostFormValue("value"))
		err := screen.Edit(r.Context(), intent)
		switch {
		case err == nil, errors.Is(err, domain.ErrEmptyValue):
			// An empty value is a cancelled prompt.
		case errors.Is(err, domain.ErrInvalidIntent):
			c.Flash.Notify(kind, "Invalid "+kind.Singular()+" "+string(intent.Field))
		default:
			status, msg := errorStatus(kind, err)
			if status == http.StatusNotFound {
				http.Error(w, msg, status)
				return
			}
			// Backend failures were already flashed by the screen.
		}
		http.Redirect(w, r, returnTo(kind, r), http.StatusSeeOther)
	}
}

// handleDelete removes a record once confirm=yes is posted. Without it a
// confirmation page is shown instead.
func (c *Console) handleDelete(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen := c.screen(kind)
		if screen == nil {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		id := domain.ID(r.PathValue("id"))
		rec, ok := screen.Get(id)
		if !ok {
			http.NotFound(w, r)
			return
		}
		confirmed := r.PostFormValue("confirm") == "yes"
		if !confirmed {
			renderTemplate(w, r, "confirm_delete.html", map[string]any{
				"Kind":        kind,
				"Title":       kind.Title(),
				"ID":          id,
				"Message":     domain.ConfirmMessage(rec),
				"ReturnQuery": r.PostFormValue("return"),
				"CancelURL":   returnTo(kind, r),
			})
			return
		}
		if err := screen.Delete(r.Context(), domain.NewDeleteIntent(kind, id, true)); err != nil {
			slog.Debug("console_delete_rejected", "kind", kind, "id", id, "error", err)
		}
		http.Redirect(w, r, returnTo(kind, r), http.StatusSeeOther)
	}
}

// handleExport writes the filtered view, all pages, as an XLSX workbook.
func (c *Console) handleExport(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen := c.screen(kind)
		if screen == nil {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Has("q") || q.Has("status") {
			fp := listutil.ParseFilterParams(q)
			screen.ApplyFilter(domain.Query{Search: fp.Search, Status: fp.Status})
		}
		if err := screen.EnsureLoaded(r.Context()); err != nil {
			status, msg := errorStatus(kind, err)
			http.Error(w, msg, status)
			return
		}

		records := screen.Filtered()
		var buf bytes.Buffer
		if err := export.WriteRoster(&buf, kind, records); err != nil {
			internalError(w, err)
			return
		}
		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(kind)))
		_, _ = buf.WriteTo(w)
		slog.Info("roster_event", "event", "roster_exported", "kind", kind, "rows", len(records))
	}
}
