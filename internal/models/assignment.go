package models

import "time"

// Assignment types accepted by the backend.
const (
	AssignmentProject  = "Project"
	AssignmentHomework = "Homework"
)

type Assignment struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	AssignmentType string    `json:"assignment_type"`
	TotalPoints    int       `json:"total_points"`
	DueDate        time.Time `json:"due_date"`
	Instructions   string    `json:"instructions,omitempty"`
	Attachments    []string  `json:"attachments,omitempty"`
	CourseID       string    `json:"course_id"`
	TeacherID      string    `json:"teacher_id"`
	IsPublished    bool      `json:"is_published"`
	CreatedDate    time.Time `json:"created_date"`
}

// Submission statuses.
const (
	SubmissionSubmitted = "submitted"
	SubmissionGraded    = "graded"
)

type AssignmentSubmission struct {
	ID             string     `json:"id"`
	AssignmentID   string     `json:"assignment_id"`
	StudentID      string     `json:"student_id"`
	StudentName    string     `json:"student_name,omitempty"`
	Content        string     `json:"content,omitempty"`
	Attachments    []string   `json:"attachments,omitempty"`
	Status         string     `json:"status"`
	SubmissionDate time.Time  `json:"submission_date"`
	Score          *float64   `json:"score,omitempty"`
	Feedback       string     `json:"feedback,omitempty"`
	GradedAt       *time.Time `json:"graded_at,omitempty"`
}

// GradeComponent is a single weighted entry in a student's course grade
// (midterm, participation, ...). Managed by teachers in the gradebook.
type GradeComponent struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
	Weight   float64 `json:"weight"`
}

type Grade struct {
	ID              string           `json:"id"`
	CourseID        string           `json:"course_id"`
	StudentID       string           `json:"student_id"`
	StudentName     string           `json:"student_name,omitempty"`
	Components      []GradeComponent `json:"components,omitempty"`
	FinalPercentage *float64         `json:"final_percentage,omitempty"`
	LetterGrade     string           `json:"letter_grade,omitempty"`
	UpdatedAt       *time.Time       `json:"updated_at,omitempty"`
}
