// Package client implements the HTTP client for the AuthKeeper API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// ErrUnavailable indicates the server could not be reached at all, as
// opposed to an error response from the server.
var ErrUnavailable = errors.New("server unavailable")

const requestTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// AuthResult is the token material returned by register and login.
type AuthResult struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// UserInfo describes the authenticated user as reported by the server.
type UserInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type authEnvelope struct {
	Success bool       `json:"success"`
	Data    AuthResult `json:"data"`
}

type userEnvelope struct {
	Success bool     `json:"success"`
	Data    UserInfo `json:"data"`
}

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password, "name": name}

	var env authEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", "", body, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}

	var env authEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "", body, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) CurrentUser(ctx context.Context, token string) (*UserInfo, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me", token, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
		return nil
	}

	var errEnv errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&errEnv); err != nil {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	switch errEnv.Error.Code {
	case "USER_ALREADY_EXISTS":
		return common.ErrorEmailAlreadyExists
	case "INVALID_CREDENTIALS":
		return common.ErrorInvalidCredentials
	case "UNAUTHORIZED":
		return common.ErrInvalidToken
	default:
		return fmt.Errorf("server error: %s", errEnv.Error.Message)
	}
}
