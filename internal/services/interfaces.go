// Package services holds the typed API bindings the portal views render
// from. Each service covers one role's slice of the backend; all of them
// go through the shared gateway client, which handles bearer tokens and
// authentication failures uniformly.
package services

import (
	"context"
	"time"

	"github.com/campus-core/portal-client/internal/models"
)

// ===== REQUEST DTOs =====

type CreateCourseRequest struct {
	CourseCode   string `json:"course_code" validate:"required,course_code"`
	CourseName   string `json:"course_name" validate:"required,max=200"`
	Description  string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Credits      int    `json:"credits" validate:"required,min=1,max=12"`
	Department   string `json:"department" validate:"required,max=100"`
	MaxCapacity  int    `json:"max_capacity" validate:"required,min=1,max=500"`
	Semester     string `json:"semester" validate:"required,oneof=Fall Spring Summer"`
	Year         int    `json:"year" validate:"required,academic_year"`
	ScheduleInfo string `json:"schedule_info,omitempty" validate:"omitempty,max=500"`
}

type UpdateCourseRequest struct {
	CourseName   *string `json:"course_name,omitempty" validate:"omitempty,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Credits      *int    `json:"credits,omitempty" validate:"omitempty,min=1,max=12"`
	Department   *string `json:"department,omitempty" validate:"omitempty,max=100"`
	MaxCapacity  *int    `json:"max_capacity,omitempty" validate:"omitempty,min=1,max=500"`
	Semester     *string `json:"semester,omitempty" validate:"omitempty,oneof=Fall Spring Summer"`
	Year         *int    `json:"year,omitempty" validate:"omitempty,academic_year"`
	ScheduleInfo *string `json:"schedule_info,omitempty" validate:"omitempty,max=500"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=student teacher admin"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
}

type CreateAssignmentRequest struct {
	Title          string    `json:"title" validate:"required,max=200"`
	Description    string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	AssignmentType string    `json:"assignment_type" validate:"required,oneof=Project Homework"`
	TotalPoints    int       `json:"total_points" validate:"required,min=1,max=1000"`
	DueDate        time.Time `json:"due_date" validate:"required,future_date"`
	Instructions   string    `json:"instructions,omitempty" validate:"omitempty,max=10000"`
	Attachments    []string  `json:"attachments,omitempty"`
	IsPublished    *bool     `json:"is_published,omitempty"`
}

type UpdateAssignmentRequest struct {
	Title          *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description    *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	AssignmentType *string    `json:"assignment_type,omitempty" validate:"omitempty,oneof=Project Homework"`
	TotalPoints    *int       `json:"total_points,omitempty" validate:"omitempty,min=1,max=1000"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Instructions   *string    `json:"instructions,omitempty" validate:"omitempty,max=10000"`
	IsPublished    *bool      `json:"is_published,omitempty"`
}

type GradeSubmissionRequest struct {
	Score    float64 `json:"score" validate:"min=0"`
	Feedback string  `json:"feedback,omitempty" validate:"omitempty,max=5000"`
}

type CreateQuizRequest struct {
	Title       string                `json:"title" validate:"required,max=200"`
	Description string                `json:"description,omitempty" validate:"omitempty,max=5000"`
	Questions   []models.QuizQuestion `json:"questions" validate:"required,min=1,dive"`
	StartDate   time.Time             `json:"start_date" validate:"required"`
	DueDate     time.Time             `json:"due_date" validate:"required"`
	IsPublished *bool                 `json:"is_published,omitempty"`
}

type UpdateQuizRequest struct {
	Title       *string               `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string               `json:"description,omitempty" validate:"omitempty,max=5000"`
	Questions   []models.QuizQuestion `json:"questions,omitempty" validate:"omitempty,dive"`
	StartDate   *time.Time            `json:"start_date,omitempty"`
	DueDate     *time.Time            `json:"due_date,omitempty"`
	IsPublished *bool                 `json:"is_published,omitempty"`
}

type SubmitAssignmentRequest struct {
	Content     string   `json:"content" validate:"required"`
	Attachments []string `json:"attachments,omitempty"`
}

type TakeQuizRequest struct {
	Answers []models.QuizAnswer `json:"answers" validate:"required,min=1,dive"`
}

type RecordAttendanceRequest struct {
	Date    time.Time               `json:"date" validate:"required"`
	Records []AttendanceEntryUpdate `json:"records" validate:"required,min=1,dive"`
}

type AttendanceEntryUpdate struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent late"`
}

type CourseFeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type GradeComponentRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Score    float64 `json:"score" validate:"min=0"`
	MaxScore float64 `json:"max_score" validate:"required,gt=0"`
	Weight   float64 `json:"weight" validate:"required,gt=0,lte=100"`
}

type BulkGradeEntry struct {
	StudentID  string                  `json:"student_id" validate:"required"`
	Components []GradeComponentRequest `json:"components" validate:"required,min=1,dive"`
}

type BulkGradesRequest struct {
	Grades []BulkGradeEntry `json:"grades" validate:"required,min=1,dive"`
}

// ReportQuery narrows the admin report endpoints.
type ReportQuery struct {
	Period     string // week, month, semester, year
	Department string
}

// ===== RESPONSE DTOs =====

type TakeQuizResponse struct {
	Message       string `json:"message"`
	Score         int    `json:"score"`
	TotalPossible int    `json:"total_possible"`
}

type CourseGrades struct {
	CourseID string         `json:"course_id"`
	Grades   []models.Grade `json:"grades"`
}

type GradeStats struct {
	CourseID string  `json:"course_id"`
	Average  float64 `json:"average"`
	Median   float64 `json:"median"`
	Highest  float64 `json:"highest"`
	Lowest   float64 `json:"lowest"`
	PassRate float64 `json:"pass_rate"`
}

// ===== SERVICE INTERFACES =====

type AdminService interface {
	DashboardStats(ctx context.Context) (*models.AdminDashboardStats, error)

	CreateCourse(ctx context.Context, req CreateCourseRequest) (*models.Course, error)
	ListCourses(ctx context.Context, q models.ListQuery, department string) (*models.Page[models.Course], error)
	GetCourse(ctx context.Context, courseID string) (*models.Course, error)
	UpdateCourse(ctx context.Context, courseID string, req UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, courseID string) error
	AssignTeacher(ctx context.Context, courseID, teacherID string) error

	ListUsers(ctx context.Context, q models.ListQuery, role models.UserRole) (*models.Page[models.User], error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
	SetUserActive(ctx context.Context, userID string, active bool) error

	SystemStats(ctx context.Context) (*models.SystemStatsReport, error)
	Report(ctx context.Context, reportType string, q ReportQuery) (*models.Report, error)
}

type TeacherService interface {
	DashboardStats(ctx context.Context) (*models.TeacherDashboardStats, error)
	MyCourses(ctx context.Context, limit int) ([]models.Course, error)
	CourseStudents(ctx context.Context, courseID string) ([]models.User, error)

	CourseAssignments(ctx context.Context, courseID string) ([]models.Assignment, error)
	CreateAssignment(ctx context.Context, courseID string, req CreateAssignmentRequest) (string, error)
	UpdateAssignment(ctx context.Context, assignmentID string, req UpdateAssignmentRequest) error
	DeleteAssignment(ctx context.Context, assignmentID string) error
	AssignmentSubmissions(ctx context.Context, assignmentID string) ([]models.AssignmentSubmission, error)
	GradeSubmission(ctx context.Context, submissionID string, req GradeSubmissionRequest) error

	CourseQuizzes(ctx context.Context, courseID string) ([]models.Quiz, error)
	CreateQuiz(ctx context.Context, courseID string, req CreateQuizRequest) (string, error)
	UpdateQuiz(ctx context.Context, quizID string, req UpdateQuizRequest) error
	DeleteQuiz(ctx context.Context, quizID string) error
	QuizSubmissions(ctx context.Context, quizID string) ([]models.QuizSubmission, error)

	CourseAttendance(ctx context.Context, courseID string) ([]models.AttendanceRecord, error)
	RecordAttendance(ctx context.Context, courseID string, req RecordAttendanceRequest) error

	CourseGrades(ctx context.Context, courseID string) (*CourseGrades, error)
	SaveBulkGrades(ctx context.Context, courseID string, req BulkGradesRequest) error
	AddGradeComponent(ctx context.Context, courseID, studentID string, req GradeComponentRequest) error
	UpdateGradeComponent(ctx context.Context, courseID, studentID, componentID string, req GradeComponentRequest) error
	DeleteGradeComponent(ctx context.Context, courseID, studentID, componentID string) error
	StudentGrades(ctx context.Context, courseID, studentID string) (*models.Grade, error)
	CalculateGrades(ctx context.Context, courseID string) error
	GradeStats(ctx context.Context, courseID string) (*GradeStats, error)
}

type StudentService interface {
	DashboardStats(ctx context.Context) (*models.StudentDashboardStats, error)

	AvailableCourses(ctx context.Context) ([]models.Course, error)
	MyCourses(ctx context.Context, limit int) ([]models.Course, error)
	Enroll(ctx context.Context, courseID string) error
	Drop(ctx context.Context, courseID string) error

	CourseAssignments(ctx context.Context, courseID string) ([]models.Assignment, error)
	SubmitAssignment(ctx context.Context, assignmentID string, req SubmitAssignmentRequest) error

	CourseQuizzes(ctx context.Context, courseID string) ([]models.Quiz, error)
	TakeQuiz(ctx context.Context, quizID string, req TakeQuizRequest) (*TakeQuizResponse, error)

	CourseGrades(ctx context.Context, courseID string) (*models.Grade, error)
	CourseAttendance(ctx context.Context, courseID string) ([]models.AttendanceRecord, error)

	PostFeedback(ctx context.Context, courseID string, req CourseFeedbackRequest) error
	CourseFeedback(ctx context.Context, courseID string) ([]models.CourseFeedback, error)

	Transcript(ctx context.Context) (*models.Transcript, error)
	Calendar(ctx context.Context) ([]models.CalendarItem, error)
}

// ServiceManager bundles the role services behind one constructor, the
// way main wires them.
type ServiceManager interface {
	Admin() AdminService
	Teacher() TeacherService
	Student() StudentService
}
