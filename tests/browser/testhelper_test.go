package browser_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"schooladmin/internal/adapters/gateway"
	"schooladmin/internal/adapters/gradebook"
	web "schooladmin/internal/adapters/http"
	"schooladmin/internal/adapters/http/perf"
	"schooladmin/internal/application/projections"
	appRoster "schooladmin/internal/application/roster"
	domain "schooladmin/internal/domain/roster"
)

// testApp holds the running console, its fake backend and Playwright handles.
type testApp struct {
	BaseURL string
	Backend *rosterBackend
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// rosterBackend is an in-memory admin backend for the console to talk to.
type rosterBackend struct {
	mu      sync.Mutex
	records map[string][]map[string]any
}

func newRosterBackend() *rosterBackend {
	b := &rosterBackend{records: map[string][]map[string]any{}}
	for i := 1; i <= 12; i++ {
		status := "Active"
		if i%4 == 0 {
			status = "Inactive"
		}
		b.records["courses"] = append(b.records["courses"], map[string]any{
			"id": i, "title": fmt.Sprintf("Course %02d", i), "code": fmt.Sprintf("C%02d", i), "instructor": "Dr. Ray", "status": status,
		})
	}
	b.records["students"] = []map[string]any{
		{"id": 1, "name": "John Doe", "email": "john@school.test", "class": "10A", "rollNo": "1", "status": "Enrolled"},
		{"id": 3, "name": "Mike Johnson", "email": "mike@school.test", "class": "11C", "rollNo": "3", "status": "Enrolled"},
	}
	b.records["teachers"] = []map[string]any{
		{"id": 1, "name": "Ann Lee", "email": "ann@school.test", "assignedCourses": []any{"1"}, "totalStudents": 30, "status": "Active"},
	}
	return b
}

func (b *rosterBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/"), "/"), "/")
	plural := parts[0]
	find := func(id string) int {
		for i, rec := range b.records[plural] {
			if fmt.Sprint(rec["id"]) == id {
				return i
			}
		}
		return -1
	}
	switch {
	case r.Method == http.MethodGet && len(parts) == 1:
		json.NewEncoder(w).Encode(map[string]any{"total": len(b.records[plural]), plural: b.records[plural]})
	case r.Method == http.MethodPatch && len(parts) == 2:
		i := find(parts[1])
		if i < 0 {
			http.NotFound(w, r)
			return
		}
		var patch map[string]any
		json.NewDecoder(r.Body).Decode(&patch)
		for k, v := range patch {
			if k == "fullName" {
				k = "name"
			}
			b.records[plural][i][k] = v
		}
		json.NewEncoder(w).Encode(b.records[plural][i])
	case r.Method == http.MethodDelete && len(parts) == 2:
		i := find(parts[1])
		if i < 0 {
			http.NotFound(w, r)
			return
		}
		b.records[plural] = append(b.records[plural][:i], b.records[plural][i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

// count returns how many records the backend holds for plural.
func (b *rosterBackend) count(plural string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records[plural])
}

// newTestApp wires a console against a fake backend and starts it on a free port.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	backend := newRosterBackend()
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	collector := perf.NewCollector(perf.DefaultRingSize)
	flash := web.NewFlash()
	clients := map[domain.Kind]*gateway.Client{}
	screens := map[domain.Kind]*appRoster.Screen{}
	for _, kind := range domain.Kinds {
		gw, err := gateway.New(backendSrv.URL, kind, gateway.WithCollector(collector))
		if err != nil {
			t.Fatalf("gateway %s: %v", kind, err)
		}
		clients[kind] = gw
		screens[kind] = appRoster.NewScreen(kind, gw, flash, 10)
	}
	handler := web.NewMux(&web.Console{
		Screens: screens,
		Dashboard: projections.GetDashboardDeps{
			Courses:  clients[domain.KindCourses],
			Students: clients[domain.KindStudents],
			Teachers: clients[domain.KindTeachers],
		},
		Sheets:    gradebook.NewSampleSource(),
		Flash:     flash,
		Collector: collector,
	}, web.Options{
		CSRFKey: bytes.Repeat([]byte("b"), 32),
		TrustedOrigins: []string{
			fmt.Sprintf("127.0.0.1:%d", port),
			fmt.Sprintf("localhost:%d", port),
		},
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: handler,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/static/console.css")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Start Playwright; machines without installed browsers skip.
	pw, err := playwright.Run()
	if err != nil {
		srv.Close()
		t.Skipf("playwright unavailable: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		srv.Close()
		t.Skipf("chromium unavailable: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		Backend: backend,
		Server:  srv,
		PW:      pw,
		Browser: browser,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// open navigates to path and fails the test on error.
func (a *testApp) open(t *testing.T, page playwright.Page, path string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + path); err != nil {
		t.Fatalf("failed to navigate to %s: %v", path, err)
	}
}

// text returns the trimmed text content of the first match of selector.
func text(t *testing.T, page playwright.Page, selector string) string {
	t.Helper()
	s, err := page.Locator(selector).First().TextContent()
	if err != nil {
		t.Fatalf("text of %s: %v", selector, err)
	}
	return strings.TrimSpace(s)
}
