package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"schooladmin/internal/application/listutil"
	domain "schooladmin/internal/domain/roster"
)

// ErrRecordNotFound is returned when an intent names a record the screen
// does not hold.
var ErrRecordNotFound = errors.New("record not found")

// View is a point-in-time copy of a screen for rendering.
type View struct {
	Kind         domain.Kind       `json:"kind"`
	Query        domain.Query      `json:"query"`
	Records      []domain.Record   `json:"records"`
	Page         listutil.PageInfo `json:"page"`
	Loaded       bool              `json:"loaded"`
	LoadFailed   bool              `json:"loadFailed"`
	LoadedAt     time.Time         `json:"loadedAt"`
	BackendTotal int               `json:"backendTotal"`
	Count        int               `json:"count"`
	Statuses     []string          `json:"statuses"`
}

// Screen is the controller behind one roster page. It owns a Store and a
// Cursor and turns edit and delete intents into backend calls.
// INVARIANT: mu is never held across a gateway call; the store is mutated
// only after the backend call has returned.
type Screen struct {
	kind     domain.Kind
	gw       Gateway
	notifier Notifier

	mu         sync.Mutex
	store      *Store
	cursor     listutil.Cursor
	loaded     bool
	loadFailed bool
	loadedAt   time.Time
	total      int
}

// NewScreen creates a screen for kind backed by gw.
// PRE: gw is non-nil
// POST: The screen is empty until Load succeeds or fails
func NewScreen(kind domain.Kind, gw Gateway, notifier Notifier, perPage int) *Screen {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &Screen{
		kind:     kind,
		gw:       gw,
		notifier: notifier,
		store:    NewStore(kind),
		cursor:   listutil.NewCursor(perPage),
	}
}

// Kind returns the screen's roster kind.
func (s *Screen) Kind() domain.Kind { return s.kind }

// Load fetches the collection and replaces the store's contents.
// PRE: none
// POST: On success the store holds the normalised records. On failure the
// store is emptied, the user is notified and the FetchError is returned.
func (s *Screen) Load(ctx context.Context) error {
	res, err := s.gw.List(ctx)
	if err != nil {
		slog.Error("roster_fetch_failed", "kind", s.kind, "error", err)
		s.mu.Lock()
		s.store.Load(nil)
		s.total = 0
		s.loaded = true
		s.loadFailed = true
		s.loadedAt = time.Now()
		s.mu.Unlock()
		s.notifier.Notify(s.kind, FetchFailedMessage(s.kind))
		return err
	}

	records, skipped := domain.NormalizeAll(s.kind, res.Records)
	if skipped > 0 {
		slog.Warn("roster_records_skipped", "kind", s.kind, "skipped", skipped)
	}

	s.mu.Lock()
	s.store.Load(records)
	s.total = res.Total
	s.loaded = true
	s.loadFailed = false
	s.loadedAt = time.Now()
	s.mu.Unlock()

	slog.Info("roster_event", "event", "roster_loaded", "kind", s.kind, "count", len(records), "total", res.Total)
	return nil
}

// EnsureLoaded loads the screen once; later calls are no-ops.
func (s *Screen) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if loaded {
		return nil
	}
	return s.Load(ctx)
}

// ApplyFilter sets the active query. A changed query moves the cursor to page 1.
func (s *Screen) ApplyFilter(q domain.Query) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store.SetQuery(q) {
		s.cursor.Reset()
	}
}

// SetPage moves the cursor. It is clamped on the next Snapshot.
func (s *Screen) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.Set(page)
}

// Edit applies a validated edit intent.
// PRE: none; the intent is validated here
// POST: Returns domain.ErrEmptyValue without side effects for a cancelled
// prompt. On a backend failure the store is unchanged, the user is notified
// and the FetchError is returned. On success the echoed record (or the patch
// when the backend echoes nothing) is merged into the store.
func (s *Screen) Edit(ctx context.Context, intent domain.EditIntent) error {
	if intent.Kind == "" {
		intent.Kind = s.kind
	}
	if intent.Kind != s.kind {
		return fmt.Errorf("%w: %s intent on %s screen", domain.ErrInvalidIntent, intent.Kind, s.kind)
	}
	if err := intent.Validate(); err != nil {
		return err
	}
	if _, ok := s.Get(intent.RecordID); !ok {
		return ErrRecordNotFound
	}
	patch, err := intent.Patch()
	if err != nil {
		return err
	}

	echoed, err := s.gw.Update(ctx, intent.RecordID, patch)
	if err != nil {
		slog.Error("roster_update_failed", "kind", s.kind, "id", intent.RecordID, "intent_id", intent.IntentID, "error", err)
		s.notifier.Notify(s.kind, UpdateFailedMessage(s.kind))
		return err
	}
	if len(echoed) == 0 {
		echoed = patch
	}

	s.mu.Lock()
	s.store.Replace(intent.RecordID, echoed)
	s.mu.Unlock()

	slog.Info("roster_event", "event", "record_updated", "kind", s.kind, "id", intent.RecordID, "field", intent.Field, "intent_id", intent.IntentID)
	return nil
}

// Delete applies a confirmed delete intent.
// PRE: none; unconfirmed intents are rejected before any backend call
// POST: On a backend failure the store is unchanged, the user is notified
// and the FetchError is returned. On success the record leaves both views.
func (s *Screen) Delete(ctx context.Context, intent domain.DeleteIntent) error {
	if intent.Kind == "" {
		intent.Kind = s.kind
	}
	if intent.Kind != s.kind {
		return fmt.Errorf("%w: %s intent on %s screen", domain.ErrInvalidIntent, intent.Kind, s.kind)
	}
	if err := intent.Validate(); err != nil {
		return err
	}

	if err := s.gw.Remove(ctx, intent.RecordID); err != nil {
		slog.Error("roster_delete_failed", "kind", s.kind, "id", intent.RecordID, "intent_id", intent.IntentID, "error", err)
		s.notifier.Notify(s.kind, DeleteFailedMessage(s.kind))
		return err
	}

	s.mu.Lock()
	s.store.RemoveByID(intent.RecordID)
	s.mu.Unlock()

	slog.Info("roster_event", "event", "record_removed", "kind", s.kind, "id", intent.RecordID, "intent_id", intent.IntentID)
	return nil
}

// Get returns the record with id.
func (s *Screen) Get(id domain.ID) (domain.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(id)
}

// Filtered returns every record matching the active query, across all pages.
func (s *Screen) Filtered() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Filtered()
}

// Snapshot returns the current page of the filtered view.
func (s *Screen) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := s.store.Filtered()
	page, info := listutil.Paginate(&s.cursor, filtered)
	return View{
		Kind:         s.kind,
		Query:        s.store.Query(),
		Records:      page,
		Page:         info,
		Loaded:       s.loaded,
		LoadFailed:   s.loadFailed,
		LoadedAt:     s.loadedAt,
		BackendTotal: s.total,
		Count:        s.store.Len(),
		Statuses:     domain.Statuses(s.kind),
	}
}

// FetchFailedMessage is shown when a roster cannot be loaded.
func FetchFailedMessage(kind domain.Kind) string {
	return "Failed to fetch " + kind.Plural()
}

// UpdateFailedMessage is shown when an edit is rejected.
func UpdateFailedMessage(kind domain.Kind) string {
	return "Failed to update " + kind.Singular()
}

// DeleteFailedMessage is shown when a delete is rejected.
func DeleteFailedMessage(kind domain.Kind) string {
	return "Failed to delete " + kind.Singular()
}
