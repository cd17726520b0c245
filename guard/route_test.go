package guard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hireflow/hireflow-session/guard"
	"github.com/hireflow/hireflow-session/session"
)

func TestEvaluateRoute(t *testing.T) {
	const destination = "/jobs/42/applicants"

	tests := []struct {
		name     string
		state    session.State
		action   guard.Action
		returnTo string
	}{
		{"authenticated renders", session.StateAuthenticated, guard.Render, ""},
		{"mid-refresh still renders", session.StateRefreshPending, guard.Render, ""},
		{"authenticating shows loading", session.StateAuthenticating, guard.ShowLoading, ""},
		{"logging out shows loading", session.StateLoggingOut, guard.ShowLoading, ""},
		{"expired shows the expiry notice", session.StateExpired, guard.ShowExpiredNotice, destination},
		{"unauthenticated redirects", session.StateUnauthenticated, guard.Redirect, destination},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decision := guard.EvaluateRoute(tc.state, destination)
			require.Equal(t, tc.action, decision.Action)
			require.Equal(t, tc.returnTo, decision.ReturnTo)
		})
	}
}
