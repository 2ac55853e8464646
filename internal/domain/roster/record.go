package roster

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Raw is a backend record as decoded from JSON, before normalisation.
type Raw map[string]any

// Record is the capability shared by every normalised roster entry.
type Record interface {
	RecordID() ID
	RecordKind() Kind
	DisplayName() string
	RecordStatus() string
	Initials() string
	// SearchFields returns the text fields free-text search runs against.
	SearchFields() []string
	// ToRaw returns the source fields of the record. Derived display fields
	// are never included, so normalising the result yields the same record.
	ToRaw() Raw
}

// Merge returns a copy of base with every key of patch written over it.
// Neither argument is modified.
func Merge(base, patch Raw) Raw {
	out := make(Raw, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// text reads a string field. Numbers are formatted; nil and other types give "".
func (r Raw) text(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// count reads an integer field, returning 0 when absent or unparsable.
func (r Raw) count(key string) int {
	switch v := r[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return int(f)
		}
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

// list reads an array field; anything else gives nil.
func (r Raw) list(key string) []any {
	if v, ok := r[key].([]any); ok {
		return v
	}
	return nil
}

// extras collects keys not named in known.
func (r Raw) extras(known map[string]bool) Raw {
	var out Raw
	for k, v := range r {
		if known[k] {
			continue
		}
		if out == nil {
			out = make(Raw)
		}
		out[k] = v
	}
	return out
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func withExtras(raw Raw, extra Raw) Raw {
	for k, v := range extra {
		if _, taken := raw[k]; !taken {
			raw[k] = v
		}
	}
	return raw
}

// ReconcileWire returns raw in read shape. People records written with
// "fullName" are read back as "name"; when only the write-side key is
// present it is copied across. Courses are returned unchanged.
func ReconcileWire(kind Kind, raw Raw) Raw {
	if kind == KindCourses {
		return raw
	}
	full := raw.text("fullName")
	if full == "" || raw.text("name") != "" {
		return raw
	}
	out := Merge(raw, nil)
	out["name"] = full
	return out
}
