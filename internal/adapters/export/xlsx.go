package export

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	domain "schooladmin/internal/domain/roster"
)

// ContentType is the MIME type of the workbook written by WriteRoster.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// defaultSheet is the sheet excelize creates in a new workbook.
const defaultSheet = "Sheet1"

// Columns returns the header row for kind.
func Columns(kind domain.Kind) []string {
	switch kind {
	case domain.KindCourses:
		return []string{"Title", "Code", "Instructor", "Status"}
	case domain.KindStudents:
		return []string{"Name", "Email", "Class", "Roll No", "Status"}
	case domain.KindTeachers:
		return []string{"Name", "Email", "Courses", "Students", "Role", "Status"}
	}
	return nil
}

// Row returns the cells of rec in Columns order.
func Row(rec domain.Record) []any {
	switch r := rec.(type) {
	case *domain.CourseRecord:
		return []any{r.Title, r.Code, r.Instructor, r.Status}
	case *domain.StudentRecord:
		return []any{r.Name, r.Email, r.Class, r.RollNo, r.Status}
	case *domain.TeacherRecord:
		return []any{r.Name, r.Email, r.Courses, r.Students, r.Role, r.Status}
	}
	return []any{rec.DisplayName(), rec.RecordStatus()}
}

// Filename returns the download name for a kind's export.
func Filename(kind domain.Kind) string {
	return kind.Plural() + ".xlsx"
}

// WriteRoster writes records as a single-sheet XLSX workbook named after
// kind: a bold header row followed by one row per record, in order.
// PRE: every record is of kind
// POST: w holds a complete workbook, or an error is returned
func WriteRoster(w io.Writer, kind domain.Kind, records []domain.Record) error {
	cols := Columns(kind)
	if cols == nil {
		return domain.ErrUnknownKind
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("export_close_failed", "kind", kind, "error", err)
		}
	}()

	sheet := kind.Title()
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, rec := range records {
		row := Row(rec)
		if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(i+2), &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
