package views

import (
	"github.com/campus-core/portal-client/internal/guard"
	"github.com/campus-core/portal-client/internal/models"
	"github.com/campus-core/portal-client/internal/session"
)

// Route is one navigable view and the roles allowed to enter it. An
// empty Allowed set admits any authenticated user.
type Route struct {
	Path    string
	Title   string
	Allowed []models.UserRole
}

var routeTable = []Route{
	{Path: guard.HomePath, Title: "Home"},
	{Path: "/admin", Title: "Admin Dashboard", Allowed: []models.UserRole{models.RoleAdmin}},
	{Path: "/teacher", Title: "Teacher Dashboard", Allowed: []models.UserRole{models.RoleTeacher}},
	{Path: "/student", Title: "Student Dashboard", Allowed: []models.UserRole{models.RoleStudent}},
}

func findRoute(path string) (Route, bool) {
	for _, route := range routeTable {
		if route.Path == path {
			return route, true
		}
	}
	return Route{}, false
}

// resolve runs the guard for path and returns the path that should
// actually render plus the decision that got us there. Redirect chains
// terminate because the login and home targets are always resolvable.
func resolve(view session.View, path string) (string, guard.Decision) {
	if path == guard.LoginPath {
		return path, guard.Decision{Kind: guard.Allow}
	}

	route, ok := findRoute(path)
	if !ok {
		route = Route{Path: guard.HomePath}
		path = guard.HomePath
	}

	decision := guard.Authorize(view, path, route.Allowed...)
	switch decision.Kind {
	case guard.Allow, guard.Pending:
		return path, decision
	default:
		return decision.Path, decision
	}
}

// homePathFor picks the landing dashboard for the user's role.
func homePathFor(user *models.User) string {
	if user == nil {
		return guard.LoginPath
	}
	switch user.Role {
	case models.RoleAdmin:
		return "/admin"
	case models.RoleTeacher:
		return "/teacher"
	default:
		return "/student"
	}
}
