package roster

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Field names an editable roster attribute.
type Field string

// Editable fields.
const (
	FieldName   Field = "name"
	FieldStatus Field = "status"
)

// MaxValueLength bounds edit values.
const MaxValueLength = 200

// Intent errors
var (
	ErrEmptyValue    = errors.New("edit value is empty")
	ErrNotConfirmed  = errors.New("delete was not confirmed")
	ErrInvalidIntent = errors.New("invalid edit intent")
)

// patchKeys is the write-side wire contract. Renaming a course writes
// "title"; renaming a person writes "fullName" even though reads return
// "name". The backend depends on this asymmetry.
var patchKeys = map[Kind]map[Field]string{
	KindCourses:  {FieldName: "title", FieldStatus: "status"},
	KindStudents: {FieldName: "fullName", FieldStatus: "status"},
	KindTeachers: {FieldName: "fullName", FieldStatus: "status"},
}

// PatchKey returns the JSON key used to write field for kind.
func PatchKey(kind Kind, field Field) (string, bool) {
	key, ok := patchKeys[kind][field]
	return key, ok
}

// EditIntent carries a proposed change collected by the presentation layer.
// The layer has already prompted for the value; the core never blocks on UI.
type EditIntent struct {
	IntentID uuid.UUID `json:"intentId"`
	Kind     Kind      `json:"kind" validate:"required"`
	RecordID ID        `json:"recordId" validate:"required"`
	Field    Field     `json:"field" validate:"required,oneof=name status"`
	Value    string    `json:"value" validate:"required,max=200"`
}

// NewEditIntent builds an intent with a fresh id.
func NewEditIntent(kind Kind, id ID, field Field, value string) EditIntent {
	return EditIntent{IntentID: uuid.New(), Kind: kind, RecordID: id, Field: field, Value: value}
}

// Validate cleans and checks the intent.
// PRE: none
// POST: Value is trimmed and, for status edits, matched to the vocabulary's
// casing. Returns ErrEmptyValue for a blank value (a cancelled prompt) and
// ErrInvalidIntent for anything else that fails validation.
func (e *EditIntent) Validate() error {
	e.Value = strings.TrimSpace(e.Value)
	if e.Value == "" {
		return ErrEmptyValue
	}
	if e.Field == FieldStatus {
		for _, s := range statusVocabulary[e.Kind] {
			if strings.EqualFold(s, e.Value) {
				e.Value = s
			}
		}
	}
	if err := validate().Struct(e); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIntent, err)
	}
	return nil
}

// Patch returns the PATCH body for the intent.
// PRE: Validate has succeeded
func (e EditIntent) Patch() (Raw, error) {
	key, ok := PatchKey(e.Kind, e.Field)
	if !ok {
		return nil, fmt.Errorf("%w: no wire key for %s.%s", ErrInvalidIntent, e.Kind, e.Field)
	}
	return Raw{key: e.Value}, nil
}

// DeleteIntent carries a delete request. Confirmed is set by the
// presentation layer once the user has accepted the confirmation prompt.
type DeleteIntent struct {
	IntentID  uuid.UUID `json:"intentId"`
	Kind      Kind      `json:"kind"`
	RecordID  ID        `json:"recordId"`
	Confirmed bool      `json:"confirmed"`
}

// NewDeleteIntent builds a delete intent with a fresh id.
func NewDeleteIntent(kind Kind, id ID, confirmed bool) DeleteIntent {
	return DeleteIntent{IntentID: uuid.New(), Kind: kind, RecordID: id, Confirmed: confirmed}
}

// Validate rejects unconfirmed or incomplete deletes.
func (d DeleteIntent) Validate() error {
	if !d.Kind.Valid() || d.RecordID == "" {
		return ErrInvalidIntent
	}
	if !d.Confirmed {
		return ErrNotConfirmed
	}
	return nil
}

// ConfirmMessage is the question shown before a delete.
func ConfirmMessage(rec Record) string {
	return fmt.Sprintf("Are you sure you want to delete %q?", rec.DisplayName())
}

// PromptMessage is the question shown before an edit.
func PromptMessage(kind Kind, field Field) string {
	if field == FieldStatus {
		return fmt.Sprintf("Update %s status", kind.Singular())
	}
	if kind == KindCourses {
		return "Update course title"
	}
	return fmt.Sprintf("Update %s name", kind.Singular())
}

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// validate returns the shared validator, configured to report JSON field
// names and to check status values against the kind's vocabulary.
func validate() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterStructValidation(func(sl validator.StructLevel) {
			e := sl.Current().Interface().(EditIntent)
			if !e.Kind.Valid() {
				sl.ReportError(e.Kind, "kind", "Kind", "kind", "")
				return
			}
			if e.Field == FieldStatus && !IsKnownStatus(e.Kind, e.Value) {
				sl.ReportError(e.Value, "value", "Value", "status", "")
			}
		}, EditIntent{})
		validatorInst = v
	})
	return validatorInst
}
