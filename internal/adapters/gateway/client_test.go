package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"schooladmin/internal/adapters/gateway"
	"schooladmin/internal/adapters/http/perf"
	"schooladmin/internal/domain/roster"
)

func newClient(t *testing.T, srv *httptest.Server, kind roster.Kind, opts ...gateway.Option) *gateway.Client {
	t.Helper()
	c, err := gateway.New(srv.URL, kind, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// TestList_Envelope verifies the {total, <plural>} response shape.
func TestList_Envelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/admin/courses" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		if r.Header.Get(gateway.RequestIDHeader) == "" {
			t.Error("missing request id header")
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"total": 12, "courses": [{"id": 1, "title": "Algebra"}, {"id": 2, "title": "Biology"}]}`)
	}))
	defer srv.Close()

	res, err := newClient(t, srv, roster.KindCourses).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Total != 12 {
		t.Errorf("Total = %d, want 12", res.Total)
	}
	if len(res.Records) != 2 || res.Records[1]["title"] != "Biology" {
		t.Errorf("Records = %v", res.Records)
	}
	if id, ok := res.Records[0]["id"].(json.Number); !ok || id.String() != "1" {
		t.Errorf("id decoded as %T %v, want json.Number 1", res.Records[0]["id"], res.Records[0]["id"])
	}
}

// TestList_Shapes verifies bare arrays, missing keys and missing totals.
func TestList_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantTotal int
		wantLen   int
	}{
		{"bare array", `[{"id": 1}, {"id": 2}, {"id": 3}]`, 3, 3},
		{"missing collection key", `{"total": 0}`, 0, 0},
		{"missing total", `{"students": [{"id": "a"}]}`, 1, 1},
		{"null collection", `{"total": 4, "students": null}`, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			res, err := newClient(t, srv, roster.KindStudents).List(context.Background())
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if res.Total != tt.wantTotal || len(res.Records) != tt.wantLen {
				t.Errorf("got total=%d len=%d, want total=%d len=%d", res.Total, len(res.Records), tt.wantTotal, tt.wantLen)
			}
			if res.Records == nil {
				t.Error("Records is nil, want empty slice")
			}
		})
	}
}

// TestList_Failures verifies status and decoding failures become FetchErrors.
func TestList_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantErr    error
	}{
		{"server error", http.StatusInternalServerError, `{"detail": "boom"}`, 500, gateway.ErrUnexpectedStatus},
		{"not found", http.StatusNotFound, ``, 404, gateway.ErrUnexpectedStatus},
		{"garbage", http.StatusOK, `<html>`, 0, gateway.ErrMalformedBody},
		{"wrong item type", http.StatusOK, `{"teachers": [1, 2]}`, 0, gateway.ErrMalformedBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newClient(t, srv, roster.KindTeachers).List(context.Background())
			var fe *gateway.FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("error = %v, want *FetchError", err)
			}
			if fe.Op != gateway.OpList || fe.Kind != roster.KindTeachers {
				t.Errorf("FetchError = %+v", fe)
			}
			if fe.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", fe.StatusCode, tt.wantStatus)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestList_Unreachable verifies transport failures carry no status.
func TestList_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newClient(t, srv, roster.KindCourses)
	srv.Close()

	_, err := c.List(context.Background())
	var fe *gateway.FetchError
	if !errors.As(err, &fe) || fe.StatusCode != 0 {
		t.Fatalf("error = %v, want FetchError without status", err)
	}
}

// TestUpdate verifies the PATCH request and the echoed record.
func TestUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/admin/students/7" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["fullName"] != "Jane Smith" || len(body) != 1 {
			t.Errorf("body = %v", body)
		}
		io.WriteString(w, `{"id": 7, "name": "Jane Smith", "class": "10B"}`)
	}))
	defer srv.Close()

	rec, err := newClient(t, srv, roster.KindStudents).Update(context.Background(), "7", roster.Raw{"fullName": "Jane Smith"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec["name"] != "Jane Smith" || rec["class"] != "10B" {
		t.Errorf("record = %v", rec)
	}
}

// TestUpdate_EmptyBody verifies an empty 2xx body is not an error.
func TestUpdate_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	rec, err := newClient(t, srv, roster.KindCourses).Update(context.Background(), "1", roster.Raw{"title": "X"})
	if err != nil || rec != nil {
		t.Errorf("Update = %v, %v; want nil, nil", rec, err)
	}
}

// TestRemove verifies the DELETE request and status handling.
func TestRemove(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		if r.URL.Path == "/admin/teachers/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, `{"deleted": true}`)
	}))
	defer srv.Close()
	c := newClient(t, srv, roster.KindTeachers)

	if err := c.Remove(context.Background(), "3"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if gotPath != "DELETE /admin/teachers/3" {
		t.Errorf("request = %q", gotPath)
	}
	err := c.Remove(context.Background(), "missing")
	if !gateway.IsNotFound(err) {
		t.Errorf("error = %v, want not found", err)
	}
}

// TestCollectorRecordsUpstream verifies calls are recorded as upstream entries.
func TestCollectorRecordsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()
	col := perf.NewCollector(10)

	if _, err := newClient(t, srv, roster.KindCourses, gateway.WithCollector(col)).List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	snap := col.Snapshot(time.Now().Add(-time.Minute), 5)
	if len(snap.SlowestUpstream) != 1 || snap.SlowestUpstream[0].Path != "GET courses" {
		t.Errorf("SlowestUpstream = %+v", snap.SlowestUpstream)
	}
}

// TestNew_Validation verifies bad base URLs and kinds are rejected.
func TestNew_Validation(t *testing.T) {
	if _, err := gateway.New("127.0.0.1:8000", roster.KindCourses); err == nil {
		t.Error("expected error for URL without scheme")
	}
	if _, err := gateway.New("http://127.0.0.1:8000", roster.Kind("parents")); !errors.Is(err, roster.ErrUnknownKind) {
		t.Errorf("error = %v, want ErrUnknownKind", err)
	}
	c, err := gateway.New("http://127.0.0.1:8000/", roster.KindStudents)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.URL() != "http://127.0.0.1:8000/admin/students" {
		t.Errorf("URL = %q", c.URL())
	}
}
