package session

// AuthError is a failed login. Message is safe to display next to the
// form: the server's message when it sent one, a generic line otherwise.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// RegistrationError is a failed registration attempt. AccountCreated
// distinguishes the partial-success case: the account exists server-side
// but the follow-up auto-login failed, so the user should log in
// manually rather than re-register.
type RegistrationError struct {
	Message        string
	AccountCreated bool
	Err            error
}

func (e *RegistrationError) Error() string { return e.Message }
func (e *RegistrationError) Unwrap() error { return e.Err }
