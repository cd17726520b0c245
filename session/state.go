package session

import "time"

// State is the single process-wide session state. Exactly one State is active
// at a time; every event has a defined effect in every state, even if a no-op.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
	StateRefreshPending
	StateExpired
	StateLoggingOut
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshPending:
		return "refresh_pending"
	case StateExpired:
		return "expired"
	case StateLoggingOut:
		return "logging_out"
	default:
		return "unknown"
	}
}

// Cause labels why a transition happened, for subscribers and logs.
type Cause string

const (
	CauseInitialLoad     Cause = "initial_load"
	CauseLoginAttempt    Cause = "login_attempt"
	CauseLoginSuccess    Cause = "login_success"
	CauseLoginFailure    Cause = "login_failure"
	CauseRefreshStarted  Cause = "refresh_started"
	CauseRefreshSuccess  Cause = "refresh_success"
	CauseRefreshFailure  Cause = "refresh_failure"
	CauseHardExpiry      Cause = "hard_expiry"
	CauseLogout          Cause = "logout"
	CauseLogoutComplete  Cause = "logout_complete"
	CauseRequestRejected Cause = "request_rejected"
)

// Transition is delivered to subscribers on every state change.
type Transition struct {
	From  State
	To    State
	Cause Cause
	At    time.Time
}
