package models

// ===== AUTH DTOs =====

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the success body of POST /auth/login. Role is duplicated
// at the top level by the backend; the user record is authoritative.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	User        *User  `json:"user"`
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required,min=6"`
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=student teacher admin"`
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=100"`
}

// RegisterResponse is the 201 body of POST /auth/register. Registration
// does not return a token; callers log in afterwards.
type RegisterResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

// ProfileResponse is the body of GET /auth/profile.
type ProfileResponse struct {
	LoggedInAs  ProfileIdentity `json:"logged_in_as"`
	UserDetails *User           `json:"user_details"`
}

// ProfileIdentity is the token identity echoed back by the profile call.
type ProfileIdentity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ===== LIST / PAGINATION DTOs =====

// Page is the backend's pagination envelope. Data stays generic so each
// endpoint binding can instantiate it with its item type.
type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// ListQuery carries the common pagination/filter query parameters.
type ListQuery struct {
	Page    int
	PerPage int
	Sort    string
	Order   string // asc or desc
	Search  string
}

// ===== DASHBOARD DTOs =====

type AdminDashboardStats struct {
	TotalCourses     int64 `json:"total_courses"`
	TotalStudents    int64 `json:"total_students"`
	TotalTeachers    int64 `json:"total_teachers"`
	TotalEnrollments int64 `json:"total_enrollments"`
}

type TeacherDashboardStats struct {
	TotalCourses       int64 `json:"total_courses"`
	TotalStudents      int64 `json:"total_students"`
	TotalAssignments   int64 `json:"total_assignments"`
	PendingSubmissions int64 `json:"pending_submissions"`
}

type StudentDashboardStats struct {
	TotalCourses         int64   `json:"total_courses"`
	TotalCredits         int64   `json:"total_credits"`
	UpcomingAssignments  int64   `json:"upcoming_assignments"`
	UpcomingQuizzes      int64   `json:"upcoming_quizzes"`
	CompletedAssignments int64   `json:"completed_assignments"`
	CompletedQuizzes     int64   `json:"completed_quizzes"`
	AverageGrade         float64 `json:"average_grade"`
}

// ===== REPORT DTOs =====

type SystemStatsReport struct {
	TotalUsers              int64 `json:"total_users"`
	TotalStudents           int64 `json:"total_students"`
	TotalTeachers           int64 `json:"total_teachers"`
	TotalAdmins             int64 `json:"total_admins"`
	TotalCourses            int64 `json:"total_courses"`
	TotalEnrollments        int64 `json:"total_enrollments"`
	TotalAssignments        int64 `json:"total_assignments"`
	TotalSubmissions        int64 `json:"total_submissions"`
	TotalGrades             int64 `json:"total_grades"`
	ActiveUsers             int64 `json:"active_users"`
	NewUsersThisMonth       int64 `json:"new_users_this_month"`
	NewEnrollmentsThisMonth int64 `json:"new_enrollments_this_month"`
}

// ReportRow is a loosely-typed row for the aggregate reports whose shape
// varies per report type (enrollment trends, department stats, ...). The
// exporter flattens these into worksheet rows.
type ReportRow map[string]any

type Report struct {
	Type        string      `json:"type"`
	Period      string      `json:"period,omitempty"`
	GeneratedAt string      `json:"generated_at,omitempty"`
	Rows        []ReportRow `json:"data"`
}

// ===== TRANSCRIPT / CALENDAR DTOs =====

type TranscriptEntry struct {
	CourseCode      string   `json:"course_code"`
	CourseName      string   `json:"course_name"`
	Credits         int      `json:"credits"`
	Semester        string   `json:"semester"`
	Year            int      `json:"year"`
	FinalPercentage *float64 `json:"final_percentage,omitempty"`
	LetterGrade     string   `json:"letter_grade,omitempty"`
}

type Transcript struct {
	StudentID string            `json:"student_id"`
	GPA       float64           `json:"gpa"`
	Entries   []TranscriptEntry `json:"entries"`
}

type CalendarItem struct {
	Kind     string `json:"kind"` // assignment or quiz
	Title    string `json:"title"`
	CourseID string `json:"course_id"`
	DueDate  string `json:"due_date"`
}
