package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when a backend id is missing or not a number/string.
var ErrInvalidID = errors.New("invalid record id")

// ID is a record identifier. The backend sends integers for some rosters and
// strings for others; both are kept in canonical string form.
type ID string

// String returns the canonical form used in URLs.
func (id ID) String() string { return string(id) }

// IDFromAny converts a decoded JSON value into an ID.
// PRE: v comes from encoding/json (float64, json.Number or string) or is an int
// POST: Returns ErrInvalidID for nil, empty or non-scalar values
func IDFromAny(v any) (ID, error) {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return "", ErrInvalidID
		}
		return ID(t), nil
	case json.Number:
		return ID(t.String()), nil
	case float64:
		return ID(strconv.FormatFloat(t, 'f', -1, 64)), nil
	case int:
		return ID(strconv.Itoa(t)), nil
	case int64:
		return ID(strconv.FormatInt(t, 10)), nil
	}
	return "", fmt.Errorf("%w: %v", ErrInvalidID, v)
}

// UnmarshalJSON accepts both numeric and string ids.
func (id *ID) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	parsed, err := IDFromAny(v)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
