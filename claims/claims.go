package claims

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields this client reads out of a session credential.
// The credential itself stays opaque: its signature is verified by the server
// on every authorised call, never locally.
type Claims struct {
	SubjectID string
	Email     string
	Provider  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// DecodeError reports a credential that could not be read. Downstream code
// treats it exactly like having no credential at all.
type DecodeError struct {
	reason string
}

func (e *DecodeError) Error() string {
	return "claims: cannot decode credential: " + e.reason
}

// Decode extracts Claims from an encoded credential. It is pure, never
// panics on malformed input, and performs no signature verification.
func Decode(credential string) (*Claims, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, &DecodeError{reason: "empty credential"}
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(credential, jwt.MapClaims{})
	if err != nil {
		return nil, &DecodeError{reason: err.Error()}
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &DecodeError{reason: "error extracting claims"}
	}

	sub, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)
	provider, _ := mapClaims["provider"].(string)
	iat, _ := mapClaims["iat"].(float64)
	exp, _ := mapClaims["exp"].(float64)

	if exp == 0 {
		return nil, &DecodeError{reason: "credential has no expiry"}
	}

	return &Claims{
		SubjectID: sub,
		Email:     email,
		Provider:  provider,
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
