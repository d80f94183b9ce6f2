package models

import "time"

type QuizQuestion struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"` // omitted for students
	Points        int      `json:"points"`
}

type Quiz struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	CourseID    string         `json:"course_id"`
	TeacherID   string         `json:"teacher_id"`
	Questions   []QuizQuestion `json:"questions,omitempty"`
	TotalPoints int            `json:"total_points"`
	StartDate   time.Time      `json:"start_date"`
	DueDate     time.Time      `json:"due_date"`
	IsPublished bool           `json:"is_published"`
	CreatedDate time.Time      `json:"created_date"`
}

// QuizAnswer is one answer in a take-quiz request; the graded fields are
// filled by the server in submission listings.
type QuizAnswer struct {
	QuestionIndex int    `json:"question_index,omitempty"`
	Answer        string `json:"answer"`
	IsCorrect     bool   `json:"is_correct,omitempty"`
	PointsEarned  int    `json:"points_earned,omitempty"`
}

type QuizSubmission struct {
	ID             string       `json:"id"`
	QuizID         string       `json:"quiz_id"`
	StudentID      string       `json:"student_id"`
	StudentName    string       `json:"student_name,omitempty"`
	Answers        []QuizAnswer `json:"answers"`
	TotalScore     int          `json:"total_score"`
	SubmissionDate time.Time    `json:"submission_date"`
	Status         string       `json:"status"`
}
