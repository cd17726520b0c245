// Package identity talks to the remote identity provider. The provider is an
// opaque collaborator with three operations; the credential format it issues
// is its own business.
package identity

import (
	"context"
	"fmt"
)

// Credentials are what the user presents at login.
type Credentials struct {
	Email    string
	Password string
}

// AuthError is a rejection from the identity provider. A rejected login may
// be retried by the user; a rejected refresh ends the session.
type AuthError struct {
	Operation  string // "login", "refresh" or "invalidate"
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("identity: %s rejected (status %d)", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("identity: %s rejected (status %d): %s", e.Operation, e.StatusCode, e.Message)
}

// Provider is the remote identity issuer.
//
// Timeouts on these calls are the provider implementation's responsibility;
// callers treat a timeout like any other failure.
type Provider interface {
	// Login exchanges user credentials for an encoded session credential.
	Login(ctx context.Context, creds Credentials) (string, error)

	// Refresh exchanges the current credential for a new one.
	Refresh(ctx context.Context, credential string) (string, error)

	// Invalidate revokes the credential server-side. Best effort: callers
	// ignore its failure.
	Invalidate(ctx context.Context, credential string) error
}
