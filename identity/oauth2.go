package identity

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

var _ Provider = (*OAuth2Provider)(nil)

// OAuth2Provider adapts a standard OAuth2 token endpoint to the Provider
// contract: password grant for login, refresh_token grant for refresh, and
// RFC 7009 revocation for invalidate.
//
// The session credential handed to callers is the access token; the refresh
// token stays inside the provider, rotated on every successful exchange.
type OAuth2Provider struct {
	config        *oauth2.Config
	revocationURL string
	httpClient    *http.Client

	lock         sync.Mutex
	refreshToken string
}

type OAuth2Option func(*OAuth2Provider)

// WithOAuth2HTTPClient replaces the HTTP client used for token endpoint and
// revocation calls.
func WithOAuth2HTTPClient(httpClient *http.Client) OAuth2Option {
	return func(p *OAuth2Provider) {
		p.httpClient = httpClient
	}
}

func NewOAuth2Provider(cfg *oauth2.Config, revocationURL string, options ...OAuth2Option) *OAuth2Provider {
	p := &OAuth2Provider{
		config:        cfg,
		revocationURL: revocationURL,
		httpClient:    &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *OAuth2Provider) Login(ctx context.Context, creds Credentials) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.config.PasswordCredentialsToken(ctx, creds.Email, creds.Password)
	if err != nil {
		return "", wrapOAuth2Err("login", err)
	}

	p.lock.Lock()
	p.refreshToken = tok.RefreshToken
	p.lock.Unlock()

	return tok.AccessToken, nil
}

func (p *OAuth2Provider) Refresh(ctx context.Context, _ string) (string, error) {
	p.lock.Lock()
	refreshToken := p.refreshToken
	p.lock.Unlock()

	if refreshToken == "" {
		return "", &AuthError{Operation: "refresh", Message: "no refresh token held"}
	}

	// A TokenSource seeded with only a refresh token always hits the
	// token endpoint.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return "", wrapOAuth2Err("refresh", err)
	}

	p.lock.Lock()
	if tok.RefreshToken != "" {
		p.refreshToken = tok.RefreshToken
	}
	p.lock.Unlock()

	return tok.AccessToken, nil
}

func (p *OAuth2Provider) Invalidate(ctx context.Context, credential string) error {
	if p.revocationURL == "" {
		return nil
	}

	form := url.Values{"token": {credential}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.revocationURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "OAuth2Provider.Invalidate")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.config.ClientID, p.config.ClientSecret)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "OAuth2Provider.Invalidate Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &AuthError{Operation: "invalidate", StatusCode: resp.StatusCode}
	}
	return nil
}

func wrapOAuth2Err(operation string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &AuthError{
			Operation:  operation,
			StatusCode: retrieveErr.Response.StatusCode,
			Message:    retrieveErr.ErrorDescription,
		}
	}
	return errors.Wrapf(err, "OAuth2Provider.%s", operation)
}
