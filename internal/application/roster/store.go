package roster

import (
	domain "schooladmin/internal/domain/roster"
)

// Store holds one roster collection and its filtered view.
// INVARIANT: every record in filtered is the same pointer as its counterpart
// in all, and filtered preserves the relative order of all.
// Store is not safe for concurrent use; Screen serialises access.
type Store struct {
	kind     domain.Kind
	all      []domain.Record
	filtered []domain.Record
	query    domain.Query
}

// NewStore creates an empty store for kind.
func NewStore(kind domain.Kind) *Store {
	return &Store{kind: kind}
}

// Kind returns the collection's kind.
func (s *Store) Kind() domain.Kind { return s.kind }

// Load replaces the collection and re-derives the filtered view with the
// last query.
// PRE: records are normalised records of the store's kind
// POST: all equals records; filtered equals Apply(all, query)
func (s *Store) Load(records []domain.Record) {
	s.all = append([]domain.Record(nil), records...)
	s.refilter()
}

// SetQuery changes the active filter and re-derives the filtered view.
// Returns true when the query differs from the previous one.
func (s *Store) SetQuery(q domain.Query) bool {
	changed := q != s.query
	s.query = q
	s.refilter()
	return changed
}

// Query returns the active filter.
func (s *Store) Query() domain.Query { return s.query }

// Replace merges patch over the record with id and re-normalises it.
// PRE: the backend has already accepted the change
// POST: the merged record replaces the old one in all and, if present, in
// filtered. Unknown ids are ignored. The filtered view is not re-derived,
// so an edited row stays visible until the next filter change or load.
func (s *Store) Replace(id domain.ID, patch domain.Raw) {
	i := s.indexOf(s.all, id)
	if i < 0 {
		return
	}
	merged := domain.Merge(s.all[i].ToRaw(), domain.ReconcileWire(s.kind, patch))
	merged["id"] = string(id)
	rec, err := domain.Normalize(s.kind, merged)
	if err != nil {
		return
	}
	s.all[i] = rec
	if j := s.indexOf(s.filtered, id); j >= 0 {
		s.filtered[j] = rec
	}
}

// RemoveByID deletes the record with id from both views. Unknown ids are ignored.
func (s *Store) RemoveByID(id domain.ID) {
	s.all = without(s.all, id)
	s.filtered = without(s.filtered, id)
}

// Get returns the record with id.
func (s *Store) Get(id domain.ID) (domain.Record, bool) {
	if i := s.indexOf(s.all, id); i >= 0 {
		return s.all[i], true
	}
	return nil, false
}

// All returns a copy of the full collection.
func (s *Store) All() []domain.Record {
	return append([]domain.Record(nil), s.all...)
}

// Filtered returns a copy of the filtered view.
func (s *Store) Filtered() []domain.Record {
	return append([]domain.Record(nil), s.filtered...)
}

// Len returns the size of the full collection.
func (s *Store) Len() int { return len(s.all) }

func (s *Store) refilter() {
	s.filtered = domain.Apply(s.all, s.query)
}

func (s *Store) indexOf(list []domain.Record, id domain.ID) int {
	for i, rec := range list {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}

func without(list []domain.Record, id domain.ID) []domain.Record {
	out := list[:0:0]
	for _, rec := range list {
		if rec.RecordID() != id {
			out = append(out, rec)
		}
	}
	return out
}
