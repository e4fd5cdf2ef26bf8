// Package guard decides whether a navigation into a protected view may
// proceed, given the current session and the view's authorization
// requirement. It is pure decision logic shared by the server middleware
// and the client-side session consumers.
package guard

// Status describes how much is known about the current session.
// StatusUnknown means the initial session probe has not resolved yet and is
// deliberately distinct from StatusAnonymous ("checked, not logged in").
type Status int

const (
	StatusUnknown Status = iota
	StatusAnonymous
	StatusAuthenticated
)

// Principal is the subset of the user record the guard needs
type Principal struct {
	Role     string
	UserType string
}

// Snapshot is a point-in-time view of the session state
type Snapshot struct {
	Status  Status
	Loading bool
	User    Principal
}

// Authenticated reports whether the snapshot carries a confirmed login
func (s Snapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

type requirementKind int

const (
	kindNoAuth requirementKind = iota
	kindAnyAuth
	kindRequireRole
	kindRequireUserType
	kindAdminOnly
)

// Requirement is a closed set of per-route authorization constraints.
// Construct values with NoAuth, AnyAuth, RequireRole, RequireUserType or
// AdminOnly; the zero value is NoAuth.
type Requirement struct {
	kind     requirementKind
	role     string
	userType string
}

// NoAuth allows anyone, authenticated or not
func NoAuth() Requirement { return Requirement{kind: kindNoAuth} }

// AnyAuth requires a confirmed login, any role
func AnyAuth() Requirement { return Requirement{kind: kindAnyAuth} }

// RequireRole requires a confirmed login with the given role
func RequireRole(role string) Requirement {
	return Requirement{kind: kindRequireRole, role: role}
}

// RequireUserType requires a confirmed login with the given user type
func RequireUserType(userType string) Requirement {
	return Requirement{kind: kindRequireUserType, userType: userType}
}

// AdminOnly requires a confirmed login with the admin role
func AdminOnly() Requirement { return Requirement{kind: kindAdminOnly} }

// Action is the outcome of a guard evaluation
type Action int

const (
	// ActionWait: the session is still resolving; render a loading state and
	// make no redirect decision yet
	ActionWait Action = iota
	// ActionAllow: render the protected view
	ActionAllow
	// ActionRedirect: navigate to Decision.Location instead
	ActionRedirect
)

// Routes the guard redirects to
const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

// Decision is the result of evaluating a Requirement against a Snapshot
type Decision struct {
	Action   Action
	Location string // redirect target, set when Action == ActionRedirect
	From     string // originally requested location, preserved on login redirects
}

// Evaluate applies the authorization contract in its required order: the
// resolving check strictly precedes the authentication check, which strictly
// precedes role and type checks. An authenticated user must never be bounced
// to the login page just because the initial session probe is still in
// flight.
func Evaluate(s Snapshot, req Requirement, from string) Decision {
	if s.Loading || s.Status == StatusUnknown {
		return Decision{Action: ActionWait}
	}

	if req.kind == kindNoAuth {
		return Decision{Action: ActionAllow}
	}

	if !s.Authenticated() {
		return Decision{Action: ActionRedirect, Location: LoginRoute, From: from}
	}

	switch req.kind {
	case kindAnyAuth:
		return Decision{Action: ActionAllow}
	case kindAdminOnly:
		if s.User.Role != "admin" {
			return Decision{Action: ActionRedirect, Location: HomeRoute}
		}
	case kindRequireRole:
		if s.User.Role != req.role {
			return Decision{Action: ActionRedirect, Location: HomeRoute}
		}
	case kindRequireUserType:
		if s.User.UserType != req.userType {
			return Decision{Action: ActionRedirect, Location: HomeRoute}
		}
	}

	return Decision{Action: ActionAllow}
}
