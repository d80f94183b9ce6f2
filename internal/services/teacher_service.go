package services

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/campus-core/portal-client/internal/gateway"
	"github.com/campus-core/portal-client/internal/models"
	"github.com/campus-core/portal-client/internal/validator"
)

type teacherService struct {
	client    *gateway.Client
	validator *validator.Validator
	logger    *slog.Logger
}

func (s *teacherService) DashboardStats(ctx context.Context) (*models.TeacherDashboardStats, error) {
	var stats models.TeacherDashboardStats
	if err := s.client.Get(ctx, "/teacher/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *teacherService) MyCourses(ctx context.Context, limit int) ([]models.Course, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var courses []models.Course
	if err := s.client.Get(ctx, "/teacher/courses/my", query, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *teacherService) CourseStudents(ctx context.Context, courseID string) ([]models.User, error) {
	var students []models.User
	path := "/teacher/courses/" + url.PathEscape(courseID) + "/students"
	if err := s.client.Get(ctx, path, nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// ===== ASSIGNMENTS =====

func (s *teacherService) CourseAssignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	path := "/teacher/courses/" + url.PathEscape(courseID) + "/assignments"
	if err := s.client.Get(ctx, path, nil, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *teacherService) CreateAssignment(ctx context.Context, courseID string, req CreateAssignmentRequest) (string, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return "", errs
	}

	var resp struct {
		Message      string `json:"message"`
		AssignmentID string `json:"assignment_id"`
	}
	path := "/teacher/courses/" + url.PathEscape(courseID) + "/assignments"
	if err := s.client.Post(ctx, path, req, &resp); err != nil {
		return "", err
	}
	s.logger.Info("assignment created", "course_id", courseID, "assignment_id", resp.AssignmentID)
	return resp.AssignmentID, nil
}

func (s *teacherService) UpdateAssignment(ctx context.Context, assignmentID string, req UpdateAssignmentRequest) error {
	if errs := s.validator.Validate(req); errs != nil {
		return errs
	}
	return s.client.Put(ctx, "/teacher/assignments/"+url.PathEscape(assignmentID), req, nil)
}

func (s *teacherService) DeleteAssignment(ctx context.Context, assignmentID string) error {
	return s.client.Delete(ctx, "/teacher/assignments/"+url.PathEscape(assignmentID), nil)
}

func (s *teacherService) AssignmentSubmissions(ctx context.Context, assignmentID string) ([]models.AssignmentSubmission, error) {
	var submissions []models.AssignmentSubmission
	path := "/teacher/assignments/" + url.PathEscape(assignmentID) + "/submissions"
	if err := s.client.Get(ctx, path, nil, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *teacherService) GradeSubmission(ctx context.Context, submissionID string, req GradeSubmissionRequest) error {
	if errs := s.validator.Validate(req); errs != nil {
		return errs
	}
	path := "/teacher/submissions/" + url.PathEscape(submissionID) + "/grade"
	return s.client.Post(ctx, path, req, nil)
}

// ===== QUIZZES =====

func (s *teacherService) CourseQuizzes(ctx context.Context, courseID string) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	path := "/teacher/courses/" + url.PathEscape(courseID) + "/quizzes"
	if err := s.client.Get(ctx, path, nil, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (s *teacherService) CreateQuiz(ctx context.Context, courseID string, req CreateQuizRequest) (string, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return "", errs
	}

	var resp struct {
		Message string `json:"message"`
		QuizID  string `json:"quiz_id"`
	}
	path := "/teacher/courses/" + url.PathEscape(courseID) + "/quizzes"
	if err := s.client.Post(ctx, path, req, &resp); err != nil {
		return "", err
	}
	return resp.QuizID, nil
}

func (s *teacherService) UpdateQuiz(ctx context.Context, quizID string, req UpdateQuizRequest) error {
	if errs := s.validator.Validate(req); errs != nil {
		return errs
	}
	return s.client.Put(ctx, "/teacher/quizzes/"+url.PathEscape(quizID), req, nil)
}

func (s *teacherService) DeleteQuiz(ctx context.Context, quizID string) error {
	return s.client.Delete(ctx, "/teacher/quizzes/"+url.PathEscape(quizID), nil)
}

func (s *teacherService) QuizSubmissions(ctx context.Context, quizID string) ([]models.QuizSubmission, error) {
	var submissions []models.QuizSubmission
	path := "/teacher/quizzes/" + url.PathEscape(quizID) + "/submissions"
	if err := s.client.Get(ctx, path, nil, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

// ===== ATTENDANCE =====

func (s *teacherService) CourseAttendance(ctx context.Context, courseID string) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	path := "/teacher/courses/" + url.PathEscape(courseID) + "/attendance"
	if err := s.client.Get(ctx, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *teacherService) RecordAttendance(ctx context.Context, courseID string, req RecordAttendanceRequest) error {
	if errs := s.validator.Validate(req); errs != nil {
		return errs
	}
	path := "/teacher/courses/" + url.PathEscape(courseID) + "/attendance"
	return s.client.Post(ctx, path, req, nil)
}

// ===== GRADEBOOK =====

func (s *teacherService) CourseGrades(ctx context.Context, courseID string) (*CourseGrades, error) {
	var grades CourseGrades
	path := "/teacher/courses/" + url.PathEscape(courseID) + "/grades"
	if err := s.client.Get(ctx, path, nil, &grades); err != nil {
		return nil, err
	}
	return &grades, nil
}

func (s *teacherService) SaveBulkGrades(ctx context.Context, courseID string, req BulkGradesRequest) error {
	if errs := s.validator.Validate(req); errs != nil {
		return errs
	}
	path := "/teacher/courses/" + url.PathEscape(courseID) + "/grades/bulk"
	return s.client.Post(ctx, path, req, nil)
}

func (s *teacherService) AddGradeComponent(ctx context.Context, courseID, studentID string, req GradeComponentRequest) error {
	if errs := s.validator.Validate(req); errs != nil {
		return errs
	}
	path := "/teacher/courses/" + url.PathEscape(courseID) +
		"/students/" + url.PathEscape(studentID) + "/grades/components"
	return s.client.Post(ctx, path, req, nil)
}

func (s *teacherService) UpdateGradeComponent(ctx context.Context, courseID, studentID, componentID string, req GradeComponentRequest) error {
	if errs := s.validator.Validate(req); errs != nil {
		return errs
	}
	path := "/teacher/courses/" + url.PathEscape(courseID) +
		"/students/" + url.PathEscape(studentID) + "/grades/components/" + url.PathEscape(componentID)
	return s.client.Put(ctx, path, req, nil)
}

func (s *teacherService) DeleteGradeComponent(ctx context.Context, courseID, studentID, componentID string) error {
	path := "/teacher/courses/" + url.PathEscape(courseID) +
		"/students/" + url.PathEscape(studentID) + "/grades/components/" + url.PathEscape(componentID)
	return s.client.Delete(ctx, path, nil)
}

func (s *teacherService) StudentGrades(ctx context.Context, courseID, studentID string) (*models.Grade, error) {
	var grade models.Grade
	path := "/teacher/courses/" + url.PathEscape(courseID) +
		"/students/" + url.PathEscape(studentID) + "/grades"
	if err := s.client.Get(ctx, path, nil, &grade); err != nil {
		return nil, err
	}
	return &grade, nil
}

func (s *teacherService) CalculateGrades(ctx context.Context, courseID string) error {
	path := "/teacher/courses/" + url.PathEscape(courseID) + "/grades/calculate"
	return s.client.Post(ctx, path, nil, nil)
}

func (s *teacherService) GradeStats(ctx context.Context, courseID string) (*GradeStats, error) {
	var stats GradeStats
	path := "/teacher/courses/" + url.PathEscape(courseID) + "/grades/stats"
	if err := s.client.Get(ctx, path, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
