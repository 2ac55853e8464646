package roster

import (
	"errors"
	"strings"
)

// Kind identifies which roster a record belongs to.
type Kind string

// Roster kinds. The value doubles as the backend path segment and the
// collection key in list responses.
const (
	KindCourses  Kind = "courses"
	KindStudents Kind = "students"
	KindTeachers Kind = "teachers"
)

// Kinds lists every roster kind in dashboard order.
var Kinds = []Kind{KindCourses, KindStudents, KindTeachers}

// ErrUnknownKind is returned when a kind string does not name a roster.
var ErrUnknownKind = errors.New("unknown roster kind")

// ParseKind resolves a kind from its plural name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindCourses:
		return KindCourses, nil
	case KindStudents:
		return KindStudents, nil
	case KindTeachers:
		return KindTeachers, nil
	}
	return "", ErrUnknownKind
}

// Plural returns the collection name used on the wire ("courses").
func (k Kind) Plural() string { return string(k) }

// Singular returns the noun used in user-facing messages ("course").
func (k Kind) Singular() string {
	return strings.TrimSuffix(string(k), "s")
}

// Title returns the capitalised plural for page headings ("Courses").
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindCourses, KindStudents, KindTeachers:
		return true
	}
	return false
}
