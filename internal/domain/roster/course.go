package roster

// CourseRecord is a normalised course row.
type CourseRecord struct {
	ID             ID     `json:"id"`
	Title          string `json:"title"`
	Code           string `json:"code"`
	Instructor     string `json:"instructor"`
	Status         string `json:"status"`
	Description    string `json:"description,omitempty"`
	AvatarInitials string `json:"avatarInitials"`
	Extra          Raw    `json:"-"`
}

var courseKeys = map[string]bool{
	"id": true, "title": true, "code": true, "instructor": true,
	"status": true, "description": true, "avatar": true,
}

func normalizeCourse(id ID, raw Raw) *CourseRecord {
	title := raw.text("title")
	return &CourseRecord{
		ID:             id,
		Title:          title,
		Code:           raw.text("code"),
		Instructor:     firstNonEmpty(raw.text("instructor"), NotAvailable),
		Status:         firstNonEmpty(raw.text("status"), DefaultCourseStatus),
		Description:    raw.text("description"),
		AvatarInitials: AvatarInitials(title),
		Extra:          raw.extras(courseKeys),
	}
}

func (c *CourseRecord) RecordID() ID         { return c.ID }
func (c *CourseRecord) RecordKind() Kind     { return KindCourses }
func (c *CourseRecord) DisplayName() string  { return c.Title }
func (c *CourseRecord) RecordStatus() string { return c.Status }
func (c *CourseRecord) Initials() string     { return c.AvatarInitials }

func (c *CourseRecord) SearchFields() []string {
	return []string{c.Title, c.Code, c.Instructor}
}

func (c *CourseRecord) ToRaw() Raw {
	raw := Raw{
		"id":         string(c.ID),
		"title":      c.Title,
		"code":       c.Code,
		"instructor": c.Instructor,
		"status":     c.Status,
	}
	if c.Description != "" {
		raw["description"] = c.Description
	}
	return withExtras(raw, c.Extra)
}
