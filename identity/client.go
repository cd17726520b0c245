package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var _ Provider = (*Client)(nil)

const (
	loginPath   = "/v1/session"
	refreshPath = "/v1/session/refresh"
	logoutPath  = "/v1/session/logout"

	defaultRequestTimeout = 10 * time.Second
)

// Client is the default Provider implementation, speaking the hireflow
// identity service's JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
	Error string `json:"error,omitempty"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	body, err := json.Marshal(loginRequest{Email: creds.Email, Password: creds.Password})
	if err != nil {
		return "", errors.Wrap(err, "Client.Login Marshal")
	}
	return c.tokenCall(ctx, "login", loginPath, "", bytes.NewReader(body))
}

func (c *Client) Refresh(ctx context.Context, credential string) (string, error) {
	return c.tokenCall(ctx, "refresh", refreshPath, credential, nil)
}

func (c *Client) Invalidate(ctx context.Context, credential string) error {
	req, err := c.newRequest(ctx, logoutPath, credential, nil)
	if err != nil {
		return errors.Wrap(err, "Client.Invalidate")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "Client.Invalidate Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &AuthError{Operation: "invalidate", StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) tokenCall(ctx context.Context, operation, path, credential string, body io.Reader) (string, error) {
	req, err := c.newRequest(ctx, path, credential, body)
	if err != nil {
		return "", errors.Wrapf(err, "Client.%s", operation)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "Client.%s Do", operation)
	}
	defer resp.Body.Close()

	var tr tokenResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&tr); decodeErr != nil && resp.StatusCode < http.StatusBadRequest {
		return "", errors.Wrapf(decodeErr, "Client.%s Decode", operation)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return "", &AuthError{Operation: operation, StatusCode: resp.StatusCode, Message: tr.Error}
	}
	if tr.Token == "" {
		return "", &AuthError{Operation: operation, StatusCode: resp.StatusCode, Message: "empty token in response"}
	}
	return tr.Token, nil
}

func (c *Client) newRequest(ctx context.Context, path, credential string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}
	return req, nil
}
