package session

import (
	"context"
	"time"

	"github.com/hireflow/hireflow-session/claims"
)

// The scheduler arms a one-shot wake-up slightly before the credential
// expires, plus a coarse periodic safety net that re-validates expiry even if
// the one-shot timer was lost (process suspended and resumed). At most one
// one-shot timer is ever live; it is replaced whenever the claims change and
// cancelled on every transition out of Authenticated/RefreshPending.

func (m *Manager) armWakeupLocked(cl claims.Claims) {
	m.cancelWakeupLocked()
	if m.closed {
		return
	}

	delay := claims.TimeRemaining(cl, m.nowFunc()) - m.threshold
	if delay < 0 {
		delay = 0
	}
	m.wakeup = time.AfterFunc(delay, m.checkExpiry)
}

func (m *Manager) cancelWakeupLocked() {
	if m.wakeup != nil {
		m.wakeup.Stop()
		m.wakeup = nil
	}
}

func (m *Manager) safetyNet() {
	ticker := time.NewTicker(m.safetyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.checkExpiry()
		case <-m.stop:
			return
		}
	}
}

// checkExpiry runs on the one-shot wake-up and on every safety-net tick.
func (m *Manager) checkExpiry() {
	m.lock.Lock()
	if m.closed || m.state != StateAuthenticated {
		m.lock.Unlock()
		return
	}

	now := m.nowFunc()
	cl := *m.claims
	if claims.IsExpired(cl, now) {
		m.expireLocked(CauseHardExpiry)
		m.lock.Unlock()
		return
	}
	if !claims.IsNearExpiry(cl, now, m.threshold) {
		// Fired early (clock adjusted or safety-net tick); rearm.
		m.armWakeupLocked(cl)
		m.lock.Unlock()
		return
	}
	m.lock.Unlock()

	if _, _, err := m.EnsureFresh(context.Background()); err != nil {
		m.logger.Debug().Err(err).Msg("scheduled refresh did not renew the session")
	}
}
