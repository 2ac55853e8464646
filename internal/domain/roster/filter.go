package roster

import "strings"

// Query holds the active roster filter criteria. Empty criteria match everything.
type Query struct {
	Search string `json:"search,omitempty"`
	Status string `json:"status,omitempty"`
}

// IsEmpty reports whether the query filters nothing out.
func (q Query) IsEmpty() bool {
	return q.Search == "" && q.Status == ""
}

// Matches reports whether rec satisfies every non-empty criterion of q.
// Search is a case-insensitive substring match over the kind's search fields;
// status is compared case-insensitively against the record's status.
func Matches(rec Record, q Query) bool {
	if q.Status != "" && !strings.EqualFold(rec.RecordStatus(), q.Status) {
		return false
	}
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	for _, field := range rec.SearchFields() {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Apply returns the records matching q in their original relative order.
// PRE: none
// POST: Result is a subsequence of records; records is not modified
func Apply(records []Record, q Query) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if Matches(rec, q) {
			out = append(out, rec)
		}
	}
	return out
}
