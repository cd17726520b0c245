package identity

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// NewOIDCProvider discovers an issuer's endpoints and returns an
// OAuth2Provider bound to them. Discovery is only used to locate the token
// and revocation endpoints; credential signatures remain the server's
// responsibility on every authorised call.
func NewOIDCProvider(ctx context.Context, issuerURL, clientID, clientSecret string, scopes []string) (*OAuth2Provider, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, errors.Wrap(err, "NewOIDCProvider discovery")
	}

	var discovered struct {
		RevocationEndpoint string `json:"revocation_endpoint"`
	}
	if err := provider.Claims(&discovered); err != nil {
		return nil, errors.Wrap(err, "NewOIDCProvider claims")
	}

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     provider.Endpoint(),
		Scopes:       scopes,
	}
	return NewOAuth2Provider(cfg, discovered.RevocationEndpoint), nil
}
