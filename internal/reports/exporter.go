// Package reports renders report payloads from the API into .xlsx
// workbooks. The backend's own export endpoint serves CSV/JSON; the
// richer spreadsheet export lives client-side so it works on whatever
// the portal already fetched.
package reports

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/campus-core/portal-client/internal/models"
	"github.com/campus-core/portal-client/internal/services"
)

type Exporter struct {
	logger *slog.Logger
}

func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger}
}

// WriteReport renders a generic admin report. Rows share no fixed
// schema, so the header is the sorted union of every row's keys.
func (e *Exporter) WriteReport(report *models.Report, w io.Writer) error {
	if report == nil || len(report.Rows) == 0 {
		return fmt.Errorf("report has no rows to export")
	}

	columns := columnsOf(report.Rows)

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(report.Type)
	f.SetSheetName("Sheet1", sheet)

	if err := e.writeHeader(f, sheet, columns); err != nil {
		return err
	}

	for i, row := range report.Rows {
		for j, col := range columns {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("resolving cell: %w", err)
			}
			if v, ok := row[col]; ok {
				if err := f.SetCellValue(sheet, cell, cellValue(v)); err != nil {
					return fmt.Errorf("writing cell %s: %w", cell, err)
				}
			}
		}
	}

	e.logger.Info("report exported", "type", report.Type, "rows", len(report.Rows))
	_, err := f.WriteTo(w)
	return err
}

// WriteSystemStats renders the system stats report as metric/value pairs.
func (e *Exporter) WriteSystemStats(stats *models.SystemStatsReport, w io.Writer) error {
	if stats == nil {
		return fmt.Errorf("no stats to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "System Stats"
	f.SetSheetName("Sheet1", sheet)
	if err := e.writeHeader(f, sheet, []string{"Metric", "Value"}); err != nil {
		return err
	}

	rows := []struct {
		label string
		value int64
	}{
		{"Total users", stats.TotalUsers},
		{"Total students", stats.TotalStudents},
		{"Total teachers", stats.TotalTeachers},
		{"Total admins", stats.TotalAdmins},
		{"Total courses", stats.TotalCourses},
		{"Total enrollments", stats.TotalEnrollments},
		{"Total assignments", stats.TotalAssignments},
		{"Total submissions", stats.TotalSubmissions},
		{"Total grades", stats.TotalGrades},
		{"Active users (30 days)", stats.ActiveUsers},
		{"New users this month", stats.NewUsersThisMonth},
		{"New enrollments this month", stats.NewEnrollmentsThisMonth},
	}
	for i, row := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), row.label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), row.value)
	}
	f.SetColWidth(sheet, "A", "A", 30)

	_, err := f.WriteTo(w)
	return err
}

// WriteGradebook renders a course gradebook: one row per student with
// component scores flattened into columns.
func (e *Exporter) WriteGradebook(grades *services.CourseGrades, w io.Writer) error {
	if grades == nil || len(grades.Grades) == 0 {
		return fmt.Errorf("gradebook has no grades to export")
	}

	componentNames := gradeComponentNames(grades.Grades)
	columns := append([]string{"Student", "Final %", "Letter"}, componentNames...)

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Gradebook"
	f.SetSheetName("Sheet1", sheet)
	if err := e.writeHeader(f, sheet, columns); err != nil {
		return err
	}

	for i, grade := range grades.Grades {
		row := i + 2
		name := grade.StudentName
		if name == "" {
			name = grade.StudentID
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), name)
		if grade.FinalPercentage != nil {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), *grade.FinalPercentage)
		}
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), grade.LetterGrade)

		for _, component := range grade.Components {
			idx := indexOf(componentNames, component.Name)
			if idx < 0 {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(idx+4, row)
			if err != nil {
				return fmt.Errorf("resolving cell: %w", err)
			}
			f.SetCellValue(sheet, cell, component.Score)
		}
	}
	f.SetColWidth(sheet, "A", "A", 28)

	_, err := f.WriteTo(w)
	return err
}

// ExportToFile writes a workbook produced by fn to path.
func (e *Exporter) ExportToFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file %s: %w", path, err)
	}
	e.logger.Info("workbook written", "path", path)
	return nil
}

// ===== HELPERS =====

func (e *Exporter) writeHeader(f *excelize.File, sheet string, columns []string) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("resolving header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, headerLabel(col)); err != nil {
			return fmt.Errorf("writing header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("styling header cell %s: %w", cell, err)
		}
	}
	return nil
}

// columnsOf returns the sorted union of keys across all rows.
func columnsOf(rows []models.ReportRow) []string {
	seen := map[string]bool{}
	for _, row := range rows {
		for key := range row {
			seen[key] = true
		}
	}
	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}
	sort.Strings(columns)
	return columns
}

func gradeComponentNames(grades []models.Grade) []string {
	seen := map[string]bool{}
	var names []string
	for _, grade := range grades {
		for _, component := range grade.Components {
			if !seen[component.Name] {
				seen[component.Name] = true
				names = append(names, component.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// cellValue keeps excelize happy: JSON numbers decode as float64 and
// nested values get stringified.
func cellValue(v any) any {
	switch v := v.(type) {
	case nil:
		return ""
	case string, bool, float64, int, int64:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// headerLabel turns snake_case keys into "Snake Case" headers.
func headerLabel(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func sheetName(reportType string) string {
	name := headerLabel(strings.ReplaceAll(reportType, "-", "_"))
	// Sheet names max out at 31 chars in the xlsx format.
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}
