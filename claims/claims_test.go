package claims_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/hireflow-session/claims"
)

func mintCredential(t *testing.T, mapClaims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}

func TestDecode(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	t.Run("valid credential", func(t *testing.T) {
		credential := mintCredential(t, jwt.MapClaims{
			"sub":      "user-42",
			"email":    "ana@example.com",
			"provider": "google",
			"iat":      now.Unix(),
			"exp":      now.Add(time.Hour).Unix(),
		})

		cl, err := claims.Decode(credential)
		require.NoError(t, err)
		require.Equal(t, "user-42", cl.SubjectID)
		require.Equal(t, "ana@example.com", cl.Email)
		require.Equal(t, "google", cl.Provider)
		require.Equal(t, now.Unix(), cl.IssuedAt.Unix())
		require.Equal(t, now.Add(time.Hour).Unix(), cl.ExpiresAt.Unix())
	})

	t.Run("empty credential", func(t *testing.T) {
		_, err := claims.Decode("")
		require.Error(t, err)
		var decodeErr *claims.DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})

	t.Run("whitespace credential", func(t *testing.T) {
		_, err := claims.Decode("   ")
		var decodeErr *claims.DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})

	t.Run("malformed credential", func(t *testing.T) {
		_, err := claims.Decode("definitely.not-a.credential")
		var decodeErr *claims.DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})

	t.Run("missing expiry", func(t *testing.T) {
		credential := mintCredential(t, jwt.MapClaims{
			"sub": "user-42",
			"iat": now.Unix(),
		})

		_, err := claims.Decode(credential)
		var decodeErr *claims.DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})

	t.Run("missing optional fields", func(t *testing.T) {
		credential := mintCredential(t, jwt.MapClaims{
			"exp": now.Add(time.Hour).Unix(),
		})

		cl, err := claims.Decode(credential)
		require.NoError(t, err)
		require.Empty(t, cl.SubjectID)
		require.Empty(t, cl.Email)
	})
}
