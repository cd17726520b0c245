// Package guard contains the two thin consumers of session state: the route
// guard that gates protected view rendering, and the request guard that
// injects the credential into outgoing authorised calls.
package guard

import "github.com/hireflow/hireflow-session/session"

// Action is what a protected view should do for the current session state.
type Action int

const (
	// Render the protected content.
	Render Action = iota
	// Redirect to re-authentication, preserving the attempted destination.
	Redirect
	// ShowLoading while a login or logout is settling.
	ShowLoading
	// ShowExpiredNotice tells the user their session ended; the corrective
	// action (re-login) differs from a generic error.
	ShowExpiredNotice
)

func (a Action) String() string {
	switch a {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case ShowLoading:
		return "show_loading"
	case ShowExpiredNotice:
		return "show_expired_notice"
	default:
		return "unknown"
	}
}

// Decision pairs the action with the destination to return to after a
// successful re-authentication.
type Decision struct {
	Action   Action
	ReturnTo string
}

// EvaluateRoute is a pure projection of session state onto a rendering
// decision. A session mid-refresh still renders: its credential is valid
// until the refresh settles.
func EvaluateRoute(state session.State, destination string) Decision {
	switch state {
	case session.StateAuthenticated, session.StateRefreshPending:
		return Decision{Action: Render}
	case session.StateAuthenticating, session.StateLoggingOut:
		return Decision{Action: ShowLoading}
	case session.StateExpired:
		return Decision{Action: ShowExpiredNotice, ReturnTo: destination}
	default:
		return Decision{Action: Redirect, ReturnTo: destination}
	}
}
