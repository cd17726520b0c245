package session

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hireflow/hireflow-session/claims"
)

// RefreshError reports a failed credential refresh. It is terminal for the
// session: by the time a caller sees it, the state is Expired and the store
// has been cleared. There is no automatic retry.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return "session: refresh failed: " + e.Err.Error()
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

type refreshResult struct {
	credential string
	claims     claims.Claims
}

// EnsureFresh returns a credential that is not near expiry, refreshing it
// first when necessary. It is safe to call from any number of goroutines:
// overlapping callers share a single in-flight refresh and receive the same
// credential or the same error. When the credential is not near expiry no
// network call is made.
func (m *Manager) EnsureFresh(ctx context.Context) (string, *claims.Claims, error) {
	m.lock.Lock()
	if m.state != StateAuthenticated && m.state != StateRefreshPending {
		m.lock.Unlock()
		return "", nil, ErrSessionExpired
	}

	cl := *m.claims
	credential := m.credential
	if !claims.IsNearExpiry(cl, m.nowFunc(), m.threshold) {
		m.lock.Unlock()
		return credential, &cl, nil
	}
	m.lock.Unlock()

	v, err, _ := m.refreshGroup.Do("refresh", func() (any, error) {
		// Joined callers must not have the shared refresh torn down by
		// the first caller's context.
		return m.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", nil, err
	}

	res := v.(refreshResult)
	return res.credential, &res.claims, nil
}

func (m *Manager) refresh(ctx context.Context) (any, error) {
	m.lock.Lock()
	if m.state != StateAuthenticated && m.state != StateRefreshPending {
		m.lock.Unlock()
		return nil, ErrSessionExpired
	}

	// A refresh that completed a moment ago already renewed the session.
	if !claims.IsNearExpiry(*m.claims, m.nowFunc(), m.threshold) {
		res := refreshResult{credential: m.credential, claims: *m.claims}
		m.lock.Unlock()
		return res, nil
	}

	credential := m.credential
	if m.state != StateRefreshPending {
		m.transitionLocked(StateRefreshPending, CauseRefreshStarted)
	}
	m.lock.Unlock()

	newCredential, err := m.provider.Refresh(ctx, credential)
	if err != nil {
		m.failRefresh()
		return nil, &RefreshError{Err: err}
	}

	newClaims, err := claims.Decode(newCredential)
	if err != nil {
		m.failRefresh()
		return nil, &RefreshError{Err: errors.Wrap(err, "decode refreshed credential")}
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if m.state != StateRefreshPending {
		// Logged out while the refresh was in flight; discard the result.
		return nil, ErrSessionExpired
	}

	if err := m.store.Save(ctx, newCredential); err != nil {
		m.logger.Warn().Err(err).Msg("saving refreshed credential failed, session is in-memory only")
	}
	m.credential = newCredential
	m.claims = newClaims
	m.transitionLocked(StateAuthenticated, CauseRefreshSuccess)
	m.armWakeupLocked(*newClaims)

	return refreshResult{credential: newCredential, claims: *newClaims}, nil
}

// failRefresh ends the session after a rejected or unreachable refresh. No
// retry: a failed refresh forces re-authentication.
func (m *Manager) failRefresh() {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.state != StateRefreshPending {
		// The session moved on (logout) while the refresh was in flight.
		return
	}
	m.expireLocked(CauseRefreshFailure)
}
