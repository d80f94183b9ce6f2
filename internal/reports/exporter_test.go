package reports

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/campus-core/portal-client/internal/models"
	"github.com/campus-core/portal-client/internal/services"
)

func readSheet(t *testing.T, buf *bytes.Buffer, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("opening exported workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("reading sheet %q: %v", sheet, err)
	}
	return rows
}

func TestWriteReport(t *testing.T) {
	exporter := NewExporter(slog.New(slog.DiscardHandler))
	report := &models.Report{
		Type: "department-stats",
		Rows: []models.ReportRow{
			{"department": "CS", "enrollments": float64(120)},
			{"department": "Math", "enrollments": float64(85), "avg_grade": float64(78.5)},
		},
	}

	var buf bytes.Buffer
	if err := exporter.WriteReport(report, &buf); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	rows := readSheet(t, &buf, "Department Stats")
	if len(rows) != 3 {
		t.Fatalf("exported %d rows, want header + 2", len(rows))
	}

	// Columns are the sorted union of keys: avg_grade, department, enrollments.
	header := rows[0]
	want := []string{"Avg Grade", "Department", "Enrollments"}
	for i, label := range want {
		if header[i] != label {
			t.Errorf("header[%d] = %q, want %q", i, header[i], label)
		}
	}

	if rows[1][1] != "CS" {
		t.Errorf("first data row department = %q, want CS", rows[1][1])
	}
	if rows[2][0] != "78.5" {
		t.Errorf("second data row avg_grade = %q, want 78.5", rows[2][0])
	}
}

func TestWriteReportEmpty(t *testing.T) {
	exporter := NewExporter(nil)

	var buf bytes.Buffer
	if err := exporter.WriteReport(&models.Report{Type: "comprehensive"}, &buf); err == nil {
		t.Error("WriteReport() error = nil for empty report")
	}
	if err := exporter.WriteReport(nil, &buf); err == nil {
		t.Error("WriteReport(nil) error = nil")
	}
}

func TestWriteSystemStats(t *testing.T) {
	exporter := NewExporter(slog.New(slog.DiscardHandler))
	stats := &models.SystemStatsReport{
		TotalUsers:    150,
		TotalStudents: 120,
		TotalCourses:  14,
	}

	var buf bytes.Buffer
	if err := exporter.WriteSystemStats(stats, &buf); err != nil {
		t.Fatalf("WriteSystemStats() error = %v", err)
	}

	rows := readSheet(t, &buf, "System Stats")
	if len(rows) < 2 {
		t.Fatalf("exported %d rows", len(rows))
	}
	if rows[1][0] != "Total users" || rows[1][1] != "150" {
		t.Errorf("first metric row = %v, want Total users / 150", rows[1])
	}
}

func TestWriteGradebook(t *testing.T) {
	exporter := NewExporter(slog.New(slog.DiscardHandler))
	final := 91.2
	grades := &services.CourseGrades{
		CourseID: "c1",
		Grades: []models.Grade{
			{
				StudentID:       "s1",
				StudentName:     "Ada Student",
				FinalPercentage: &final,
				LetterGrade:     "A-",
				Components: []models.GradeComponent{
					{Name: "Midterm", Score: 88},
					{Name: "Final", Score: 94},
				},
			},
			{
				StudentID: "s2",
				Components: []models.GradeComponent{
					{Name: "Midterm", Score: 72},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := exporter.WriteGradebook(grades, &buf); err != nil {
		t.Fatalf("WriteGradebook() error = %v", err)
	}

	rows := readSheet(t, &buf, "Gradebook")
	if len(rows) != 3 {
		t.Fatalf("exported %d rows, want header + 2", len(rows))
	}

	header := rows[0]
	want := []string{"Student", "Final %", "Letter", "Final", "Midterm"}
	for i, label := range want {
		if header[i] != label {
			t.Errorf("header[%d] = %q, want %q", i, header[i], label)
		}
	}

	if rows[1][0] != "Ada Student" || rows[1][2] != "A-" {
		t.Errorf("first row = %v", rows[1])
	}
	// A student with no recorded name falls back to the id.
	if rows[2][0] != "s2" {
		t.Errorf("second row student = %q, want s2", rows[2][0])
	}
}
