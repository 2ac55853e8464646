package roster

// StudentRecord is a normalised student row.
type StudentRecord struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Class          string `json:"class"`
	RollNo         string `json:"rollNo"`
	Status         string `json:"status"`
	AvatarInitials string `json:"avatarInitials"`
	Extra          Raw    `json:"-"`
}

var studentKeys = map[string]bool{
	"id": true, "name": true, "fullName": true, "email": true, "class": true,
	"rollNo": true, "status": true, "avatar": true,
}

func normalizeStudent(id ID, raw Raw) *StudentRecord {
	name := firstNonEmpty(raw.text("name"), raw.text("fullName"))
	return &StudentRecord{
		ID:             id,
		Name:           name,
		Email:          raw.text("email"),
		Class:          firstNonEmpty(raw.text("class"), NotAvailable),
		RollNo:         firstNonEmpty(raw.text("rollNo"), NotAvailable),
		Status:         firstNonEmpty(raw.text("status"), DefaultStudentStatus),
		AvatarInitials: AvatarInitials(name),
		Extra:          raw.extras(studentKeys),
	}
}

func (s *StudentRecord) RecordID() ID           { return s.ID }
func (s *StudentRecord) RecordKind() Kind       { return KindStudents }
func (s *StudentRecord) DisplayName() string    { return s.Name }
func (s *StudentRecord) RecordStatus() string   { return s.Status }
func (s *StudentRecord) Initials() string       { return s.AvatarInitials }
func (s *StudentRecord) SearchFields() []string { return []string{s.Name, s.Email} }

func (s *StudentRecord) ToRaw() Raw {
	return withExtras(Raw{
		"id":     string(s.ID),
		"name":   s.Name,
		"email":  s.Email,
		"class":  s.Class,
		"rollNo": s.RollNo,
		"status": s.Status,
	}, s.Extra)
}
