package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"schooladmin/internal/adapters/gateway"
	appRoster "schooladmin/internal/application/roster"
	domainGrade "schooladmin/internal/domain/grade"
	domain "schooladmin/internal/domain/roster"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Linkify),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts md to HTML, falling back to escaped text.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json_encode_failed", "error", err)
	}
}

// jsonError writes {"error": msg} with status.
func jsonError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errorStatus maps a console error to an HTTP status and a client-safe message.
func errorStatus(kind domain.Kind, err error) (int, string) {
	var fe *gateway.FetchError
	switch {
	case errors.Is(err, domain.ErrEmptyValue):
		return http.StatusBadRequest, "value is required"
	case errors.Is(err, domain.ErrNotConfirmed):
		return http.StatusBadRequest, "delete must be confirmed"
	case errors.Is(err, domain.ErrInvalidIntent):
		return http.StatusBadRequest, "invalid edit"
	case errors.Is(err, appRoster.ErrRecordNotFound), errors.Is(err, domainGrade.ErrSheetNotFound):
		return http.StatusNotFound, "not found"
	case errors.As(err, &fe):
		msg := "backend request failed"
		switch fe.Op {
		case gateway.OpList:
			msg = appRoster.FetchFailedMessage(kind)
		case gateway.OpUpdate:
			msg = appRoster.UpdateFailedMessage(kind)
		case gateway.OpRemove:
			msg = appRoster.DeleteFailedMessage(kind)
		}
		if gateway.IsNotFound(err) {
			return http.StatusNotFound, msg
		}
		return http.StatusBadGateway, msg
	}
	return http.StatusInternalServerError, "internal server error"
}

// listURL rebuilds the list page address for kind, keeping filters and page.
func listURL(kind domain.Kind, q url.Values) string {
	keep := url.Values{}
	for _, key := range []string{"q", "status", "page"} {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			keep.Set(key, v)
		}
	}
	if len(keep) == 0 {
		return "/" + kind.Plural()
	}
	return "/" + kind.Plural() + "?" + keep.Encode()
}

// returnTo reads the list query carried by a form's hidden "return" field.
func returnTo(kind domain.Kind, r *http.Request) string {
	q, err := url.ParseQuery(r.PostFormValue("return"))
	if err != nil {
		q = url.Values{}
	}
	return listURL(kind, q)
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	funcMap := template.FuncMap{
		"csrfField":      func() template.HTML { return csrf.TemplateField(r) },
		"csrfToken":      func() string { return csrf.Token(r) },
		"renderMarkdown": renderMarkdown,
		"add":            func(a, b int) int { return a + b },
		"sub":            func(a, b int) int { return a - b },
		"lower":          strings.ToLower,
		"pageQuery": func(page int, search, status string) template.URL {
			q := url.Values{}
			q.Set("page", strconv.Itoa(page))
			if search != "" {
				q.Set("q", search)
			}
			if status != "" {
				q.Set("status", status)
			}
			return template.URL(q.Encode())
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
