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

type studentService struct {
	client    *gateway.Client
	validator *validator.Validator
	logger    *slog.Logger
}

func (s *studentService) DashboardStats(ctx context.Context) (*models.StudentDashboardStats, error) {
	var stats models.StudentDashboardStats
	if err := s.client.Get(ctx, "/student/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ===== COURSES & ENROLLMENT =====

func (s *studentService) AvailableCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := s.client.Get(ctx, "/student/courses/available", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *studentService) MyCourses(ctx context.Context, limit int) ([]models.Course, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var courses []models.Course
	if err := s.client.Get(ctx, "/student/courses/my", query, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *studentService) Enroll(ctx context.Context, courseID string) error {
	err := s.client.Post(ctx, "/student/courses/enroll/"+url.PathEscape(courseID), nil, nil)
	if err == nil {
		s.logger.Info("enrolled in course", "course_id", courseID)
	}
	return err
}

func (s *studentService) Drop(ctx context.Context, courseID string) error {
	return s.client.Post(ctx, "/student/courses/drop/"+url.PathEscape(courseID), nil, nil)
}

// ===== ASSIGNMENTS =====

func (s *studentService) CourseAssignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	path := "/student/courses/" + url.PathEscape(courseID) + "/assignments"
	if err := s.client.Get(ctx, path, nil, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *studentService) SubmitAssignment(ctx context.Context, assignmentID string, req SubmitAssignmentRequest) error {
	if errs := s.validator.Validate(req); errs != nil {
		return errs
	}
	path := "/student/assignments/" + url.PathEscape(assignmentID) + "/submit"
	return s.client.Post(ctx, path, req, nil)
}

// ===== QUIZZES =====

func (s *studentService) CourseQuizzes(ctx context.Context, courseID string) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	path := "/student/courses/" + url.PathEscape(courseID) + "/quizzes"
	if err := s.client.Get(ctx, path, nil, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (s *studentService) TakeQuiz(ctx context.Context, quizID string, req TakeQuizRequest) (*TakeQuizResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	var resp TakeQuizResponse
	path := "/student/quizzes/" + url.PathEscape(quizID) + "/take"
	if err := s.client.Post(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ===== GRADES, ATTENDANCE, FEEDBACK =====

func (s *studentService) CourseGrades(ctx context.Context, courseID string) (*models.Grade, error) {
	var grade models.Grade
	path := "/student/courses/" + url.PathEscape(courseID) + "/grades"
	if err := s.client.Get(ctx, path, nil, &grade); err != nil {
		return nil, err
	}
	return &grade, nil
}

func (s *studentService) CourseAttendance(ctx context.Context, courseID string) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	path := "/student/courses/" + url.PathEscape(courseID) + "/attendance"
	if err := s.client.Get(ctx, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *studentService) PostFeedback(ctx context.Context, courseID string, req CourseFeedbackRequest) error {
	if errs := s.validator.Validate(req); errs != nil {
		return errs
	}
	path := "/student/courses/" + url.PathEscape(courseID) + "/feedback"
	return s.client.Post(ctx, path, req, nil)
}

func (s *studentService) CourseFeedback(ctx context.Context, courseID string) ([]models.CourseFeedback, error) {
	var feedback []models.CourseFeedback
	path := "/student/courses/" + url.PathEscape(courseID) + "/feedback"
	if err := s.client.Get(ctx, path, nil, &feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// ===== TRANSCRIPT & CALENDAR =====

func (s *studentService) Transcript(ctx context.Context) (*models.Transcript, error) {
	var transcript models.Transcript
	if err := s.client.Get(ctx, "/student/transcript", nil, &transcript); err != nil {
		return nil, err
	}
	return &transcript, nil
}

func (s *studentService) Calendar(ctx context.Context) ([]models.CalendarItem, error) {
	var items []models.CalendarItem
	if err := s.client.Get(ctx, "/student/calendar", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
