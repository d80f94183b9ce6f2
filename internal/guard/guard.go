// Package guard decides whether a requested view may render for the
// current session. Authorize is pure: same session view and role set in,
// same decision out, which keeps it trivially unit-testable.
package guard

import (
	"slices"

	"github.com/campus-core/portal-client/internal/models"
	"github.com/campus-core/portal-client/internal/session"
)

// Paths the guard redirects to.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

type DecisionKind int

const (
	// Allow renders the requested view.
	Allow DecisionKind = iota
	// Redirect sends the user to Decision.Path instead.
	Redirect
	// Pending means a validation is in flight; render a transient
	// "authenticating" placeholder, not a final decision.
	Pending
)

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Kind DecisionKind
	// Path is the redirect target when Kind is Redirect.
	Path string
	// ReturnTo carries the originally requested path on a login
	// redirect so the login flow can send the user back afterwards.
	ReturnTo string
}

// Authorize gates the view at requestedPath. An empty allowed set means
// any authenticated user may enter. A role mismatch lands on the home
// view rather than an error page: the safe-landing policy, not a hard
// 403.
func Authorize(view session.View, requestedPath string, allowed ...models.UserRole) Decision {
	if view.IsLoading {
		return Decision{Kind: Pending}
	}
	if !view.IsAuthenticated {
		return Decision{Kind: Redirect, Path: LoginPath, ReturnTo: requestedPath}
	}
	if len(allowed) > 0 && !HasAnyRole(view.User, allowed...) {
		return Decision{Kind: Redirect, Path: HomePath}
	}
	return Decision{Kind: Allow}
}

// HasRole reports whether the user carries exactly the given role.
func HasRole(user *models.User, role models.UserRole) bool {
	return user != nil && user.Role == role
}

// HasAnyRole reports whether the user's role is in the given set.
func HasAnyRole(user *models.User, roles ...models.UserRole) bool {
	return user != nil && slices.Contains(roles, user.Role)
}
