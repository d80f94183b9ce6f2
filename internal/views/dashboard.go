package views

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/campus-core/portal-client/internal/gateway"
	"github.com/campus-core/portal-client/internal/models"
	"github.com/campus-core/portal-client/internal/services"
)

// ===== ADMIN =====

type adminDataMsg struct {
	stats   *models.AdminDashboardStats
	courses *models.Page[models.Course]
	err     error
}

type adminModel struct {
	services services.AdminService

	stats   *models.AdminDashboardStats
	courses table.Model
	loading bool
	errText string
}

func newAdminModel(svc services.AdminService) adminModel {
	return adminModel{
		services: svc,
		courses:  newCourseTable(),
		loading:  true,
	}
}

func (m adminModel) load() tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := svc.DashboardStats(ctx)
		if err != nil {
			return adminDataMsg{err: err}
		}
		courses, err := svc.ListCourses(ctx, models.ListQuery{PerPage: 20}, "")
		if err != nil {
			return adminDataMsg{err: err}
		}
		return adminDataMsg{stats: stats, courses: courses}
	}
}

func (m adminModel) Init() tea.Cmd { return m.load() }

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case adminDataMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = gateway.ErrorMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.stats = msg.stats
		m.courses.SetRows(courseRows(msg.courses.Data))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" && !m.loading {
			m.loading = true
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.courses, cmd = m.courses.Update(msg)
	return m, cmd
}

func (m adminModel) View() string {
	header := titleStyle.Render("Admin Dashboard")
	if m.loading {
		return header + "\n" + labelStyle.Render("Loading...")
	}
	if m.errText != "" {
		return header + "\n" + errorStyle.Render(m.errText) +
			helpStyle.Render("\nr: retry")
	}

	stats := ""
	if m.stats != nil {
		stats = fmt.Sprintf("%s courses  %s students  %s teachers  %s enrollments",
			statStyle.Render(strconv.FormatInt(m.stats.TotalCourses, 10)),
			statStyle.Render(strconv.FormatInt(m.stats.TotalStudents, 10)),
			statStyle.Render(strconv.FormatInt(m.stats.TotalTeachers, 10)),
			statStyle.Render(strconv.FormatInt(m.stats.TotalEnrollments, 10)))
	}
	return header + "\n" + stats + "\n\n" + m.courses.View() +
		helpStyle.Render("\nr: refresh • l: logout • ctrl+c: quit")
}

// ===== TEACHER =====

type teacherDataMsg struct {
	stats   *models.TeacherDashboardStats
	courses []models.Course
	err     error
}

type teacherModel struct {
	services services.TeacherService

	stats   *models.TeacherDashboardStats
	courses table.Model
	loading bool
	errText string
}

func newTeacherModel(svc services.TeacherService) teacherModel {
	return teacherModel{
		services: svc,
		courses:  newCourseTable(),
		loading:  true,
	}
}

func (m teacherModel) load() tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := svc.DashboardStats(ctx)
		if err != nil {
			return teacherDataMsg{err: err}
		}
		courses, err := svc.MyCourses(ctx, 0)
		if err != nil {
			return teacherDataMsg{err: err}
		}
		return teacherDataMsg{stats: stats, courses: courses}
	}
}

func (m teacherModel) Init() tea.Cmd { return m.load() }

func (m teacherModel) Update(msg tea.Msg) (teacherModel, tea.Cmd) {
	switch msg := msg.(type) {
	case teacherDataMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = gateway.ErrorMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.stats = msg.stats
		m.courses.SetRows(courseRows(msg.courses))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" && !m.loading {
			m.loading = true
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.courses, cmd = m.courses.Update(msg)
	return m, cmd
}

func (m teacherModel) View() string {
	header := titleStyle.Render("Teacher Dashboard")
	if m.loading {
		return header + "\n" + labelStyle.Render("Loading...")
	}
	if m.errText != "" {
		return header + "\n" + errorStyle.Render(m.errText) +
			helpStyle.Render("\nr: retry")
	}

	stats := ""
	if m.stats != nil {
		stats = fmt.Sprintf("%s courses  %s students  %s pending submissions",
			statStyle.Render(strconv.FormatInt(m.stats.TotalCourses, 10)),
			statStyle.Render(strconv.FormatInt(m.stats.TotalStudents, 10)),
			statStyle.Render(strconv.FormatInt(m.stats.PendingSubmissions, 10)))
	}
	return header + "\n" + stats + "\n\n" + m.courses.View() +
		helpStyle.Render("\nr: refresh • l: logout • ctrl+c: quit")
}

// ===== STUDENT =====

type studentDataMsg struct {
	stats   *models.StudentDashboardStats
	courses []models.Course
	err     error
}

type studentModel struct {
	services services.StudentService

	stats   *models.StudentDashboardStats
	courses table.Model
	loading bool
	errText string
	notice  string
}

func newStudentModel(svc services.StudentService) studentModel {
	return studentModel{
		services: svc,
		courses:  newCourseTable(),
		loading:  true,
	}
}

func (m studentModel) load() tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := svc.DashboardStats(ctx)
		if err != nil {
			return studentDataMsg{err: err}
		}
		courses, err := svc.MyCourses(ctx, 0)
		if err != nil {
			return studentDataMsg{err: err}
		}
		return studentDataMsg{stats: stats, courses: courses}
	}
}

func (m studentModel) Init() tea.Cmd { return m.load() }

func (m studentModel) Update(msg tea.Msg) (studentModel, tea.Cmd) {
	switch msg := msg.(type) {
	case studentDataMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = gateway.ErrorMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.stats = msg.stats
		m.courses.SetRows(courseRows(msg.courses))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" && !m.loading {
			m.loading = true
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.courses, cmd = m.courses.Update(msg)
	return m, cmd
}

func (m studentModel) View() string {
	header := titleStyle.Render("Student Dashboard")
	if m.loading {
		return header + "\n" + labelStyle.Render("Loading...")
	}
	if m.errText != "" {
		return header + "\n" + errorStyle.Render(m.errText) +
			helpStyle.Render("\nr: retry")
	}

	stats := ""
	if m.stats != nil {
		stats = fmt.Sprintf("%s courses  %s credits  %s upcoming  avg %s",
			statStyle.Render(strconv.FormatInt(m.stats.TotalCourses, 10)),
			statStyle.Render(strconv.FormatInt(m.stats.TotalCredits, 10)),
			statStyle.Render(strconv.FormatInt(m.stats.UpcomingAssignments+m.stats.UpcomingQuizzes, 10)),
			statStyle.Render(fmt.Sprintf("%.1f", m.stats.AverageGrade)))
	}
	out := header + "\n" + stats + "\n\n" + m.courses.View()
	if m.notice != "" {
		out += "\n" + noticeStyle.Render(m.notice)
	}
	return out + helpStyle.Render("\nr: refresh • l: logout • ctrl+c: quit")
}

// ===== SHARED =====

func newCourseTable() table.Model {
	columns := []table.Column{
		{Title: "Code", Width: 10},
		{Title: "Name", Width: 32},
		{Title: "Department", Width: 16},
		{Title: "Semester", Width: 12},
		{Title: "Enrolled", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	return t
}

func courseRows(courses []models.Course) []table.Row {
	rows := make([]table.Row, 0, len(courses))
	for _, course := range courses {
		rows = append(rows, table.Row{
			course.CourseCode,
			course.CourseName,
			course.Department,
			fmt.Sprintf("%s %d", course.Semester, course.Year),
			fmt.Sprintf("%d/%d", course.CurrentEnrollment, course.MaxCapacity),
		})
	}
	return rows
}
