package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hireflow/hireflow-session/identity"
)

func TestClient_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v1/session", r.URL.Path)
			require.NotEmpty(t, r.Header.Get("X-Request-ID"))

			var body struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "ana@example.com", body.Email)

			json.NewEncoder(w).Encode(map[string]string{"token": "issued-credential"})
		}))
		defer srv.Close()

		client := identity.NewClient(srv.URL)
		credential, err := client.Login(context.Background(), identity.Credentials{
			Email:    "ana@example.com",
			Password: "hunter2",
		})
		require.NoError(t, err)
		require.Equal(t, "issued-credential", credential)
	})

	t.Run("rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "bad credentials"})
		}))
		defer srv.Close()

		client := identity.NewClient(srv.URL)
		_, err := client.Login(context.Background(), identity.Credentials{})

		var authErr *identity.AuthError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, "login", authErr.Operation)
		require.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
		require.Contains(t, authErr.Message, "bad credentials")
	})

	t.Run("unreachable", func(t *testing.T) {
		client := identity.NewClient("http://127.0.0.1:1")
		_, err := client.Login(context.Background(), identity.Credentials{})
		require.Error(t, err)
	})
}

func TestClient_Refresh(t *testing.T) {
	t.Run("sends the current credential as bearer", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/session/refresh", r.URL.Path)
			require.Equal(t, "Bearer current-credential", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]string{"token": "fresh-credential"})
		}))
		defer srv.Close()

		client := identity.NewClient(srv.URL)
		credential, err := client.Refresh(context.Background(), "current-credential")
		require.NoError(t, err)
		require.Equal(t, "fresh-credential", credential)
	})

	t.Run("rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := identity.NewClient(srv.URL)
		_, err := client.Refresh(context.Background(), "stale-credential")

		var authErr *identity.AuthError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, "refresh", authErr.Operation)
	})

	t.Run("empty token in response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer srv.Close()

		client := identity.NewClient(srv.URL)
		_, err := client.Refresh(context.Background(), "current-credential")

		var authErr *identity.AuthError
		require.ErrorAs(t, err, &authErr)
	})
}

func TestClient_Invalidate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/session/logout", r.URL.Path)
			require.Equal(t, "Bearer current-credential", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		client := identity.NewClient(srv.URL)
		require.NoError(t, client.Invalidate(context.Background(), "current-credential"))
	})

	t.Run("failure is reported", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := identity.NewClient(srv.URL)
		err := client.Invalidate(context.Background(), "current-credential")

		var authErr *identity.AuthError
		require.ErrorAs(t, err, &authErr)
	})
}
