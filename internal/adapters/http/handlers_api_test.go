package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"schooladmin/internal/adapters/http/perf"
	appRoster "schooladmin/internal/application/roster"
	domainGrade "schooladmin/internal/domain/grade"
)

// TestAPIList_ReturnsFilteredPage verifies the JSON list carries the page and query.
func TestAPIList_ReturnsFilteredPage(t *testing.T) {
	tc := newTestConsole(t)
	rr := tc.get(t, "/api/courses?status=Active")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var view struct {
		Kind    string           `json:"kind"`
		Records []map[string]any `json:"records"`
		Page    struct {
			Total int `json:"total"`
		} `json:"page"`
		Count int `json:"count"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Kind != "courses" || view.Count != 3 {
		t.Errorf("kind/count = %s/%d, want courses/3", view.Kind, view.Count)
	}
	// Physics is Active and Algebra defaults to Active.
	if view.Page.Total != 2 || len(view.Records) != 2 {
		t.Fatalf("total/records = %d/%d, want 2/2", view.Page.Total, len(view.Records))
	}
	if view.Records[1]["instructor"] != "N/A" {
		t.Errorf("instructor = %v, want N/A default", view.Records[1]["instructor"])
	}
}

// TestAPIList_BackendFailure verifies a failed fetch maps to 502.
func TestAPIList_BackendFailure(t *testing.T) {
	tc := newTestConsole(t)
	tc.backend.setFailList("teachers", true)
	rr := tc.get(t, "/api/teachers")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), appRoster.FetchFailedMessage("teachers")) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

// TestAPIEdit verifies PATCH validation, wire keys and error mapping.
func TestAPIEdit(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"rename course", "/api/courses/2", `{"field":"name","value":"Botany"}`, http.StatusOK},
		{"status change", "/api/teachers/1", `{"field":"status","value":"inactive"}`, http.StatusOK},
		{"empty value", "/api/courses/2", `{"field":"name","value":""}`, http.StatusBadRequest},
		{"bad status", "/api/students/1", `{"field":"status","value":"Expelled"}`, http.StatusBadRequest},
		{"unknown field", "/api/students/1", `{"field":"email","value":"x@y.z"}`, http.StatusBadRequest},
		{"unknown json key", "/api/students/1", `{"field":"name","value":"A","extra":1}`, http.StatusBadRequest},
		{"missing record", "/api/students/42", `{"field":"name","value":"A"}`, http.StatusNotFound},
		{"unknown kind", "/api/parents/1", `{"field":"name","value":"A"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestConsole(t)
			// Load the roster so the record is known.
			tc.get(t, "/api/"+strings.Split(tt.path, "/")[2])
			rr := tc.sendJSON(t, http.MethodPatch, tt.path, tt.body)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
		})
	}
}

// TestAPIEdit_ReturnsUpdatedRecord verifies the echoed record is normalised and stored.
func TestAPIEdit_ReturnsUpdatedRecord(t *testing.T) {
	tc := newTestConsole(t)
	tc.get(t, "/api/courses")
	rr := tc.sendJSON(t, http.MethodPatch, "/api/courses/3", `{"field":"name","value":"Geometry"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var rec map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec["title"] != "Geometry" || rec["avatarInitials"] != "G" {
		t.Errorf("record = %v", rec)
	}
	if patches := tc.backend.patchLog(); patches[0]["title"] != "Geometry" {
		t.Errorf("patch = %v, want title key", patches[0])
	}
}

// TestAPIDelete verifies confirmation is required and success returns 204.
func TestAPIDelete(t *testing.T) {
	tc := newTestConsole(t)
	tc.get(t, "/api/students")

	if rr := tc.sendJSON(t, http.MethodDelete, "/api/students/1", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("unconfirmed status = %d, want 400", rr.Code)
	}
	if len(tc.backend.deleteLog()) != 0 {
		t.Fatal("unconfirmed delete reached the backend")
	}
	if rr := tc.sendJSON(t, http.MethodDelete, "/api/students/1?confirm=yes", ""); rr.Code != http.StatusNoContent {
		t.Errorf("confirmed status = %d, want 204", rr.Code)
	}
	if rr := tc.sendJSON(t, http.MethodDelete, "/api/students/1?confirm=yes", ""); rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rr.Code)
	}
}

// TestAPIDashboard verifies stats are computed from all three rosters.
func TestAPIDashboard(t *testing.T) {
	tc := newTestConsole(t)
	rr := tc.get(t, "/api/dashboard")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var result struct {
		Stats []struct {
			Title string `json:"title"`
			Value int    `json:"value"`
		} `json:"stats"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"Total Users": 3, "Active Courses": 2, "Registered Courses": 3, "Total Teachers": 1}
	for _, s := range result.Stats {
		if want[s.Title] != s.Value {
			t.Errorf("%s = %d, want %d", s.Title, s.Value, want[s.Title])
		}
	}
}

// TestAPIGrades verifies the JSON grade summary.
func TestAPIGrades(t *testing.T) {
	tc := newTestConsole(t)
	rr := tc.get(t, "/api/grades/4")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var summary domainGrade.Summary
	if err := json.NewDecoder(rr.Body).Decode(&summary); err != nil {
		t.Fatal(err)
	}
	if summary.Name != "Emily Davis" || summary.OverallBand != domainGrade.BandPoor {
		t.Errorf("summary = %+v", summary)
	}
	if rr := tc.get(t, "/api/grades/nope"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown student status = %d, want 404", rr.Code)
	}
}

// TestAPIPerf verifies console and upstream timings are reported.
func TestAPIPerf(t *testing.T) {
	tc := newTestConsole(t)
	tc.get(t, "/courses")
	rr := tc.get(t, "/api/perf?window=1h&top=5")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var snap perf.Snapshot
	if err := json.NewDecoder(rr.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.SlowestPaths) == 0 || len(snap.SlowestUpstream) == 0 {
		t.Errorf("snapshot = %+v, want request and upstream entries", snap)
	}
	if rr := tc.get(t, "/api/perf?window=soon"); rr.Code != http.StatusBadRequest {
		t.Errorf("bad window status = %d, want 400", rr.Code)
	}
}

// TestFlash verifies messages are one-shot and de-duplicated.
func TestFlash(t *testing.T) {
	f := NewFlash()
	f.Notify("courses", "Failed to fetch courses")
	f.Notify("courses", "Failed to fetch courses")
	f.Notify("students", "Failed to delete student")
	if got := f.Take("courses"); len(got) != 1 {
		t.Errorf("Take(courses) = %v, want one message", got)
	}
	if got := f.Take("courses"); len(got) != 0 {
		t.Errorf("second Take = %v, want none", got)
	}
	if got := f.Take("students"); len(got) != 1 {
		t.Errorf("Take(students) = %v", got)
	}
}
