package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/mysterymessage/internal/client/models"
	"github.com/dmitrijs2005/mysterymessage/internal/common"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for the server at baseURL
// (e.g. "http://localhost:3000"). A zero timeout means no limit.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope is the common part of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *HTTPClient) setToken(t string) {
	c.mu.Lock()
	c.token = t
	c.mu.Unlock()
}

func (c *HTTPClient) getToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) SignedIn() bool {
	return c.getToken() != ""
}

// do performs one API call. in (if non-nil) is sent as JSON; a 2xx body is
// decoded into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := c.getToken(); t != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) requireSession() error {
	if !c.SignedIn() {
		return ErrNotSignedIn
	}
	return nil
}

func (c *HTTPClient) SignUp(ctx context.Context, req models.SignUp) (string, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/api/sign-up", req, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *HTTPClient) VerifyCode(ctx context.Context, username, code string) (string, error) {
	in := map[string]string{"username": username, "code": code}
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/api/verify-code", in, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// CheckUsername reports whether username is free, with the server's
// explanation either way.
func (c *HTTPClient) CheckUsername(ctx context.Context, username string) (bool, string, error) {
	var env envelope
	path := "/api/check-username-unique?username=" + url.QueryEscape(username)
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return false, "", err
	}
	return env.Success, env.Message, nil
}

func (c *HTTPClient) SignIn(ctx context.Context, identifier, password string) (*models.Identity, error) {
	in := map[string]string{"identifier": identifier, "password": password}
	var out struct {
		Token string           `json:"token"`
		User  *models.Identity `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/sign-in", in, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("decode response: missing token")
	}
	c.setToken(out.Token)
	return out.User, nil
}

// SignOut forgets the local session even if the server call fails.
func (c *HTTPClient) SignOut(ctx context.Context) error {
	defer c.setToken("")
	return c.do(ctx, http.MethodPost, "/api/sign-out", nil, nil)
}

func (c *HTTPClient) Session(ctx context.Context) (*models.Identity, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var out struct {
		User *models.Identity `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/session", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Profile(ctx context.Context, username string) (*models.Profile, error) {
	p := &models.Profile{}
	if err := c.do(ctx, http.MethodGet, "/api/u/"+url.PathEscape(username), nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, username, content string) error {
	in := map[string]string{"username": username, "content": content}
	return c.do(ctx, http.MethodPost, "/api/send-message", in, nil)
}

func (c *HTTPClient) Messages(ctx context.Context) ([]models.Message, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var out struct {
		Messages []models.Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/get-messages", nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *HTTPClient) DeleteMessage(ctx context.Context, id string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/messages/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) AcceptMessages(ctx context.Context) (bool, error) {
	if err := c.requireSession(); err != nil {
		return false, err
	}
	var out struct {
		IsAcceptingMessages bool `json:"isAcceptingMessages"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/accept-messages", nil, &out); err != nil {
		return false, err
	}
	return out.IsAcceptingMessages, nil
}

func (c *HTTPClient) SetAcceptMessages(ctx context.Context, accept bool) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	in := map[string]bool{"acceptMessages": accept}
	return c.do(ctx, http.MethodPost, "/api/accept-messages", in, nil)
}

// Suggest fetches prompt suggestions and splits them into separate items.
func (c *HTTPClient) Suggest(ctx context.Context) (*models.Suggestions, error) {
	var out struct {
		Message  string `json:"message"`
		Fallback bool   `json:"fallback"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/suggest-messages", nil, &out); err != nil {
		return nil, err
	}

	s := &models.Suggestions{Fallback: out.Fallback}
	for _, part := range strings.Split(out.Message, common.SuggestionSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			s.Items = append(s.Items, part)
		}
	}
	return s, nil
}

// Export asks the server to archive the inbox and returns a short-lived
// download URL.
func (c *HTTPClient) Export(ctx context.Context) (string, error) {
	if err := c.requireSession(); err != nil {
		return "", err
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/messages/export", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *HTTPClient) Users(ctx context.Context) ([]models.PublicUser, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var out []models.PublicUser
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
