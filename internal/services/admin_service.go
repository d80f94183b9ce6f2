package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/campus-core/portal-client/internal/gateway"
	"github.com/campus-core/portal-client/internal/models"
	"github.com/campus-core/portal-client/internal/validator"
)

type adminService struct {
	client    *gateway.Client
	validator *validator.Validator
	logger    *slog.Logger
}

func (s *adminService) DashboardStats(ctx context.Context) (*models.AdminDashboardStats, error) {
	var stats models.AdminDashboardStats
	if err := s.client.Get(ctx, "/admin/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ===== COURSE MANAGEMENT =====

type courseEnvelope struct {
	Message string         `json:"message"`
	Course  *models.Course `json:"course"`
}

func (s *adminService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	var resp courseEnvelope
	if err := s.client.Post(ctx, "/admin/courses", req, &resp); err != nil {
		return nil, err
	}
	s.logger.Info("course created", "course_code", req.CourseCode)
	return resp.Course, nil
}

func (s *adminService) ListCourses(ctx context.Context, q models.ListQuery, department string) (*models.Page[models.Course], error) {
	query := listQueryValues(q)
	if department != "" {
		query.Set("department", department)
	}

	var page models.Page[models.Course]
	if err := s.client.Get(ctx, "/admin/courses", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *adminService) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	var course models.Course
	if err := s.client.Get(ctx, "/admin/courses/"+url.PathEscape(courseID), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *adminService) UpdateCourse(ctx context.Context, courseID string, req UpdateCourseRequest) (*models.Course, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	var resp courseEnvelope
	if err := s.client.Put(ctx, "/admin/courses/"+url.PathEscape(courseID), req, &resp); err != nil {
		return nil, err
	}
	return resp.Course, nil
}

func (s *adminService) DeleteCourse(ctx context.Context, courseID string) error {
	return s.client.Delete(ctx, "/admin/courses/"+url.PathEscape(courseID), nil)
}

func (s *adminService) AssignTeacher(ctx context.Context, courseID, teacherID string) error {
	body := map[string]string{"teacher_id": teacherID}
	return s.client.Put(ctx, "/admin/courses/"+url.PathEscape(courseID)+"/assign-teacher", body, nil)
}

// ===== USER MANAGEMENT =====

func (s *adminService) ListUsers(ctx context.Context, q models.ListQuery, role models.UserRole) (*models.Page[models.User], error) {
	query := listQueryValues(q)
	if role != "" {
		query.Set("role", string(role))
	}

	var page models.Page[models.User]
	if err := s.client.Get(ctx, "/admin/users", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *adminService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.client.Get(ctx, "/admin/users/"+url.PathEscape(userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *adminService) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	var resp struct {
		Message string       `json:"message"`
		User    *models.User `json:"user"`
	}
	if err := s.client.Put(ctx, "/admin/users/"+url.PathEscape(userID), req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID string) error {
	return s.client.Delete(ctx, "/admin/users/"+url.PathEscape(userID), nil)
}

func (s *adminService) SetUserActive(ctx context.Context, userID string, active bool) error {
	body := map[string]bool{"is_active": active}
	return s.client.Put(ctx, "/admin/users/"+url.PathEscape(userID)+"/status", body, nil)
}

// ===== REPORTS =====

func (s *adminService) SystemStats(ctx context.Context) (*models.SystemStatsReport, error) {
	var stats models.SystemStatsReport
	if err := s.client.Get(ctx, "/admin/reports/system-stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// reportTypes the backend serves under /admin/reports/<type>.
var reportTypes = map[string]bool{
	"enrollment-trends":     true,
	"course-performance":    true,
	"department-stats":      true,
	"recent-activities":     true,
	"top-students":          true,
	"teacher-performance":   true,
	"grade-distribution":    true,
	"assignment-completion": true,
	"comprehensive":         true,
}

func (s *adminService) Report(ctx context.Context, reportType string, q ReportQuery) (*models.Report, error) {
	if !reportTypes[reportType] {
		return nil, fmt.Errorf("unknown report type %q", reportType)
	}

	query := url.Values{}
	if q.Period != "" {
		query.Set("period", q.Period)
	}
	if q.Department != "" {
		query.Set("department", q.Department)
	}

	var rows []models.ReportRow
	if err := s.client.Get(ctx, "/admin/reports/"+reportType, query, &rows); err != nil {
		return nil, err
	}
	return &models.Report{Type: reportType, Period: q.Period, Rows: rows}, nil
}

// listQueryValues encodes the shared pagination parameters.
func listQueryValues(q models.ListQuery) url.Values {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}
	if q.Order != "" {
		query.Set("order", q.Order)
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	return query
}
