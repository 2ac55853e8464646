package roster

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// AvatarInitials concatenates the upper-cased first letter of every
// whitespace-separated token of name. Empty or blank names give "".
func AvatarInitials(name string) string {
	var b strings.Builder
	for _, token := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(token)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Normalize maps a backend record into the display shape for its kind.
// PRE: raw carries an "id" that is a number or a non-empty string
// POST: Defaults are applied only to absent or empty fields; initials are
// recomputed from the display name
// INVARIANT: Normalize(k, rec.ToRaw()) equals rec for every returned rec
func Normalize(kind Kind, raw Raw) (Record, error) {
	id, err := IDFromAny(raw["id"])
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindCourses:
		return normalizeCourse(id, raw), nil
	case KindStudents:
		return normalizeStudent(id, raw), nil
	case KindTeachers:
		return normalizeTeacher(id, raw), nil
	}
	return nil, ErrUnknownKind
}

// NormalizeAll normalises a list response, skipping records without a usable id.
// The number of skipped records is returned so callers can log it.
func NormalizeAll(kind Kind, raws []Raw) ([]Record, int) {
	out := make([]Record, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		rec, err := Normalize(kind, raw)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	return out, skipped
}
