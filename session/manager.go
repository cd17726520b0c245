// Package session owns the client-side authentication session lifecycle: one
// state machine per process that stores the bearer credential, watches its
// expiry, coordinates refresh against the identity provider and gates every
// protected call.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/hireflow/hireflow-session/claims"
	"github.com/hireflow/hireflow-session/credstore"
	"github.com/hireflow/hireflow-session/identity"
)

// ErrSessionExpired is returned wherever a valid session is required but the
// current one is expired or absent. The corrective action is a fresh login.
var ErrSessionExpired = errors.New("session expired, re-authentication required")

const defaultSafetyCheckInterval = time.Minute

// Manager is the session state machine. It is the only writer of session
// state and, together with its store, of the persisted credential. All
// transitions run under one mutex; network calls and timers happen outside
// of it.
type Manager struct {
	store    credstore.Store
	provider identity.Provider
	logger   zerolog.Logger

	threshold      time.Duration
	safetyInterval time.Duration
	nowFunc        func() time.Time

	refreshGroup singleflight.Group

	lock       sync.Mutex
	state      State
	credential string
	claims     *claims.Claims
	wakeup     *time.Timer
	subs       map[int]chan Transition
	nextSubID  int
	closed     bool

	stop     chan struct{}
	stopOnce sync.Once

	instanceID string
}

type Option func(*Manager)

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(nowFunc func() time.Time) Option {
	return func(m *Manager) {
		m.nowFunc = nowFunc
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithNearExpiryThreshold sets the lead time before hard expiry at which
// refresh becomes eligible.
func WithNearExpiryThreshold(threshold time.Duration) Option {
	return func(m *Manager) {
		m.threshold = threshold
	}
}

// WithSafetyCheckInterval sets the periodic expiry re-check interval. Zero
// disables the safety net.
func WithSafetyCheckInterval(interval time.Duration) Option {
	return func(m *Manager) {
		m.safetyInterval = interval
	}
}

// New builds a Manager and resolves the initial state from the store: a
// loadable, unexpired credential starts Authenticated with a scheduled
// wake-up; an absent or unreadable one starts Unauthenticated; an expired one
// starts Expired with the store cleared.
func New(store credstore.Store, provider identity.Provider, options ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[session.New] store is required")
	}
	if provider == nil {
		return nil, errors.New("[session.New] provider is required")
	}

	m := &Manager{
		store:          store,
		provider:       provider,
		logger:         zerolog.Nop(),
		threshold:      claims.DefaultNearExpiryThreshold,
		safetyInterval: defaultSafetyCheckInterval,
		nowFunc:        time.Now,
		state:          StateUnauthenticated,
		subs:           make(map[int]chan Transition),
		stop:           make(chan struct{}),
		instanceID:     uuid.New().String(),
	}
	for _, opt := range options {
		opt(m)
	}

	m.lock.Lock()
	m.resolveInitialStateLocked()
	m.lock.Unlock()

	if m.safetyInterval > 0 {
		go m.safetyNet()
	}
	return m, nil
}

func (m *Manager) resolveInitialStateLocked() {
	ctx := context.Background()

	credential, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, credstore.ErrNoCredential) {
			m.logger.Warn().Err(err).Msg("credential store unreadable at startup")
		}
		return
	}

	cl, err := claims.Decode(credential)
	if err != nil {
		// Unreadable is treated exactly like absent.
		m.logger.Debug().Err(err).Msg("stored credential undecodable, discarding")
		_ = m.store.Clear(ctx)
		return
	}

	if claims.IsExpired(*cl, m.nowFunc()) {
		_ = m.store.Clear(ctx)
		m.transitionLocked(StateExpired, CauseInitialLoad)
		return
	}

	m.credential = credential
	m.claims = cl
	m.transitionLocked(StateAuthenticated, CauseInitialLoad)
	m.armWakeupLocked(*cl)
}

// CurrentState returns the active session state.
func (m *Manager) CurrentState() State {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.state
}

// CurrentClaims returns a copy of the claims for the current credential, or
// nil when no session is active.
func (m *Manager) CurrentClaims() *claims.Claims {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.claims == nil {
		return nil
	}
	cl := *m.claims
	return &cl
}

// Login authenticates against the identity provider and, on success, stores
// the issued credential and schedules the expiry wake-up. A login over an
// active session ends that session first, so a failed attempt always settles
// to Unauthenticated with the store empty and nothing scheduled. A failed
// login may be retried.
func (m *Manager) Login(ctx context.Context, creds identity.Credentials) error {
	m.lock.Lock()
	if m.credential != "" {
		m.credential = ""
		m.claims = nil
		if err := m.store.Clear(ctx); err != nil {
			m.logger.Warn().Err(err).Msg("clearing credential store failed")
		}
	}
	m.cancelWakeupLocked()
	m.transitionLocked(StateAuthenticating, CauseLoginAttempt)
	m.lock.Unlock()

	credential, err := m.provider.Login(ctx, creds)
	if err != nil {
		m.failLogin()
		return errors.Wrap(err, "session.Manager.Login")
	}

	cl, err := claims.Decode(credential)
	if err != nil {
		m.failLogin()
		return errors.Wrap(err, "session.Manager.Login decode issued credential")
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if m.state != StateAuthenticating {
		// Logged out while the login call was in flight; discard.
		return ErrSessionExpired
	}

	if err := m.store.Save(ctx, credential); err != nil {
		m.logger.Warn().Err(err).Msg("saving credential failed, session is in-memory only")
	}
	m.credential = credential
	m.claims = cl
	m.transitionLocked(StateAuthenticated, CauseLoginSuccess)
	m.armWakeupLocked(*cl)
	return nil
}

func (m *Manager) failLogin() {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.state == StateAuthenticating {
		m.transitionLocked(StateUnauthenticated, CauseLoginFailure)
	}
}

// Logout ends the session from any state and always settles to
// Unauthenticated. The remote invalidate call is best effort; an in-flight
// refresh is not cancelled, its result is discarded on completion.
func (m *Manager) Logout(ctx context.Context) error {
	m.lock.Lock()
	credential := m.credential
	m.cancelWakeupLocked()
	if m.state != StateUnauthenticated {
		m.transitionLocked(StateLoggingOut, CauseLogout)
	}
	m.lock.Unlock()

	if credential != "" {
		if err := m.provider.Invalidate(ctx, credential); err != nil {
			m.logger.Warn().Err(err).Msg("remote session invalidate failed, continuing logout")
		}
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.credential = ""
	m.claims = nil
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("clearing credential store failed")
	}
	m.cancelWakeupLocked()
	if m.state != StateUnauthenticated {
		m.transitionLocked(StateUnauthenticated, CauseLogoutComplete)
	}
	return nil
}

// ReportRejected records that the server refused the current credential on a
// live request. The session moves to Expired immediately; the rejected call
// is not retried.
func (m *Manager) ReportRejected() {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.state == StateExpired {
		return
	}
	m.expireLocked(CauseRequestRejected)
}

// expireLocked moves the session to Expired and performs the monotonic
// cleanup: store emptied, claims dropped, wake-up cancelled.
func (m *Manager) expireLocked(cause Cause) {
	m.credential = ""
	m.claims = nil
	if err := m.store.Clear(context.Background()); err != nil {
		m.logger.Warn().Err(err).Msg("clearing credential store failed")
	}
	m.cancelWakeupLocked()
	m.transitionLocked(StateExpired, cause)
}

// Close stops the safety-net goroutine and the pending wake-up. It does not
// log the session out.
func (m *Manager) Close() {
	m.lock.Lock()
	m.closed = true
	m.cancelWakeupLocked()
	m.lock.Unlock()

	m.stopOnce.Do(func() { close(m.stop) })
}
