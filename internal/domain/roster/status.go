package roster

import "strings"

// Course and teacher statuses.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Student statuses.
const (
	StatusEnrolled  = "Enrolled"
	StatusGraduated = "Graduated"
	StatusDropped   = "Dropped"
	StatusSuspended = "Suspended"
)

// Field defaults applied during normalisation.
const (
	DefaultCourseStatus  = StatusActive
	DefaultStudentStatus = StatusEnrolled
	DefaultTeacherRole   = "Teacher"
	NotAvailable         = "N/A"
)

var statusVocabulary = map[Kind][]string{
	KindCourses:  {StatusActive, StatusInactive},
	KindStudents: {StatusEnrolled, StatusGraduated, StatusDropped, StatusSuspended},
	KindTeachers: {StatusActive, StatusInactive},
}

// Statuses returns the display vocabulary for a kind, in badge order.
func Statuses(k Kind) []string {
	return append([]string(nil), statusVocabulary[k]...)
}

// IsKnownStatus reports whether s belongs to the kind's vocabulary, ignoring case.
func IsKnownStatus(k Kind, s string) bool {
	for _, v := range statusVocabulary[k] {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// collapseTeacherStatus maps anything other than exactly "Active" to "Inactive".
// Statuses a newer backend might add are lost here; that matches the
// behaviour the console has always had.
func collapseTeacherStatus(s string) string {
	if s == StatusActive {
		return StatusActive
	}
	return StatusInactive
}
