package models

import "time"

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// ParseRole maps a server-declared role tag to a UserRole. Unknown tags
// fall back to student, matching the backend's registration default.
func ParseRole(s string) UserRole {
	switch UserRole(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return UserRole(s)
	default:
		return RoleStudent
	}
}

// User mirrors the user document returned by the API. The backend strips
// password fields before serializing, so none appear here.
type User struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`

	IsActive   bool       `json:"is_active"`
	DateJoined *time.Time `json:"date_joined,omitempty"`

	// Role-dependent fields; empty for roles they don't apply to.
	EnrolledCourses []string `json:"enrolled_courses,omitempty"`
	CoursesTeaching []string `json:"courses_teaching,omitempty"`
}

// UserPatch carries optional profile fields for local, optimistic edits.
// Nil fields are left untouched.
type UserPatch struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// DisplayName returns "First Last" when profile names are set, otherwise
// the username.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Username
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
