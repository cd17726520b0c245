package guard

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/hireflow/hireflow-session/session"
)

// AuthorizationRejectedError reports that the server refused the credential
// on a live request. By the time a caller sees this the session has already
// moved to Expired; the request must be re-issued after a fresh login.
type AuthorizationRejectedError struct {
	StatusCode int
	URL        string
}

func (e *AuthorizationRejectedError) Error() string {
	return fmt.Sprintf("guard: request to %s rejected with status %d, session expired", e.URL, e.StatusCode)
}

var _ http.RoundTripper = (*Transport)(nil)

// Transport authorises outgoing requests: it obtains a fresh credential from
// the session manager, attaches it as a bearer header, and raises the
// rejection event when the server answers 401. It never retries a rejected
// request.
type Transport struct {
	sessions *session.Manager
	base     http.RoundTripper
	logger   zerolog.Logger
}

type TransportOption func(*Transport)

func WithBase(base http.RoundTripper) TransportOption {
	return func(t *Transport) {
		t.base = base
	}
}

func WithLogger(logger zerolog.Logger) TransportOption {
	return func(t *Transport) {
		t.logger = logger
	}
}

func NewTransport(sessions *session.Manager, options ...TransportOption) *Transport {
	t := &Transport{
		sessions: sessions,
		base:     http.DefaultTransport,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	credential, _, err := t.sessions.EnsureFresh(req.Context())
	if err != nil {
		return nil, errors.Wrap(err, "guard.Transport.RoundTrip")
	}

	// RoundTrippers must not mutate the caller's request.
	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+credential)

	resp, err := t.base.RoundTrip(authed)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		t.logger.Debug().Str("url", req.URL.String()).Msg("authorised request rejected, expiring session")
		t.sessions.ReportRejected()
		return nil, &AuthorizationRejectedError{StatusCode: resp.StatusCode, URL: req.URL.String()}
	}
	return resp, nil
}
