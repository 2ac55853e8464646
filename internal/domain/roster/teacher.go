package roster

// TeacherRecord is a normalised teacher row. Courses and Students are
// derived counts shown in the roster table.
type TeacherRecord struct {
	ID              ID     `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	AssignedCourses []any  `json:"assignedCourses,omitempty"`
	Courses         int    `json:"courses"`
	TotalStudents   int    `json:"totalStudents"`
	Students        int    `json:"students"`
	Role            string `json:"role"`
	Status          string `json:"status"`
	AvatarInitials  string `json:"avatarInitials"`
	Extra           Raw    `json:"-"`
}

var teacherKeys = map[string]bool{
	"id": true, "name": true, "fullName": true, "email": true,
	"assignedCourses": true, "totalStudents": true, "role": true, "status": true,
	"avatar": true, "courses": true, "students": true,
}

func normalizeTeacher(id ID, raw Raw) *TeacherRecord {
	name := firstNonEmpty(raw.text("name"), raw.text("fullName"))
	assigned := raw.list("assignedCourses")
	total := raw.count("totalStudents")
	return &TeacherRecord{
		ID:              id,
		Name:            name,
		Email:           raw.text("email"),
		AssignedCourses: assigned,
		Courses:         len(assigned),
		TotalStudents:   total,
		Students:        total,
		Role:            firstNonEmpty(raw.text("role"), DefaultTeacherRole),
		Status:          collapseTeacherStatus(raw.text("status")),
		AvatarInitials:  AvatarInitials(name),
		Extra:           raw.extras(teacherKeys),
	}
}

func (t *TeacherRecord) RecordID() ID           { return t.ID }
func (t *TeacherRecord) RecordKind() Kind       { return KindTeachers }
func (t *TeacherRecord) DisplayName() string    { return t.Name }
func (t *TeacherRecord) RecordStatus() string   { return t.Status }
func (t *TeacherRecord) Initials() string       { return t.AvatarInitials }
func (t *TeacherRecord) SearchFields() []string { return []string{t.Name, t.Email} }

func (t *TeacherRecord) ToRaw() Raw {
	raw := Raw{
		"id":            string(t.ID),
		"name":          t.Name,
		"email":         t.Email,
		"totalStudents": t.TotalStudents,
		"role":          t.Role,
		"status":        t.Status,
	}
	if t.AssignedCourses != nil {
		raw["assignedCourses"] = t.AssignedCourses
	}
	return withExtras(raw, t.Extra)
}
