package models

import "time"

// Course mirrors a course document. Admins create courses unassigned;
// TeacherID stays empty until an admin assigns one.
type Course struct {
	ID string `json:"id"`
	// Some list endpoints serialize the raw document key instead of id.
	AltID             string    `json:"_id,omitempty"`
	CourseCode        string    `json:"course_code"`
	CourseName        string    `json:"course_name"`
	Description       string    `json:"description"`
	TeacherID         string    `json:"teacher_id,omitempty"`
	TeacherName       string    `json:"teacher_name,omitempty"`
	Credits           int       `json:"credits"`
	Department        string    `json:"department"`
	MaxCapacity       int       `json:"max_capacity"`
	CurrentEnrollment int       `json:"current_enrollment"`
	Semester          string    `json:"semester"`
	Year              int       `json:"year"`
	ScheduleInfo      string    `json:"schedule_info,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Key returns the course identifier regardless of which field the
// serving endpoint populated.
func (c *Course) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.AltID
}

// EnrollmentStatus values used by the backend.
const (
	EnrollmentEnrolled = "enrolled"
	EnrollmentDropped  = "dropped"
)

type Enrollment struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"student_id"`
	CourseID       string    `json:"course_id"`
	Status         string    `json:"status"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}

type AttendanceRecord struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	StudentID string    `json:"student_id"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"` // present, absent, late
}

type CourseFeedback struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	StudentID   string    `json:"student_id,omitempty"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}
