package web

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"schooladmin/internal/adapters/http/middleware"
	"schooladmin/internal/adapters/http/perf"
	"schooladmin/internal/application/projections"
	appRoster "schooladmin/internal/application/roster"
	domain "schooladmin/internal/domain/roster"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Console holds the console's dependencies.
type Console struct {
	// Screens has one controller per roster kind.
	Screens map[domain.Kind]*appRoster.Screen
	// Dashboard fetches the three rosters for the landing page.
	Dashboard projections.GetDashboardDeps
	// Sheets serves student score sheets.
	Sheets projections.SheetStore
	// Flash receives screen notifications; it must be the notifier the
	// screens were built with.
	Flash *Flash
	// Collector receives request timings. May be nil.
	Collector *perf.Collector
}

// Options configures the middleware around the console.
type Options struct {
	CSRFKey        []byte // 32 bytes
	SecureCookies  bool
	TrustedOrigins []string
	SlowRequest    time.Duration
}

// NewMux wires HTTP handlers for the console.
// PRE: c.Screens holds a screen for every domain.Kinds entry; opts.CSRFKey is 32 bytes
// POST: Returns the handler wrapped as Timing -> SecurityHeaders -> CSRF -> mux
func NewMux(c *Console, opts Options) http.Handler {
	if c.Flash == nil {
		c.Flash = NewFlash()
	}

	mux := http.NewServeMux()
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	c.registerRoutes(mux)

	return middleware.Chain(mux,
		middleware.CSRF(opts.CSRFKey, middleware.CSRFOptions{
			Secure:         opts.SecureCookies,
			TrustedOrigins: opts.TrustedOrigins,
		}),
		middleware.SecurityHeaders,
		middleware.Timing(c.Collector, opts.SlowRequest),
	)
}

// screen returns the controller for kind, or nil.
func (c *Console) screen(kind domain.Kind) *appRoster.Screen {
	return c.Screens[kind]
}
