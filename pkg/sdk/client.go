// Package sdk provides the client-side library for the CHAOS memory API.
// Every call is scoped to one browser session through the opaque cookies the
// API issued; the client never inspects them.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hargabyte/chaos-web/pkg/schema"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxBodyBytes = 1 << 20

// Endpoint paths, relative to the configured base URL.
const (
	PathLogin    = "/api/v1/auth/login"
	PathLogout   = "/api/v1/auth/logout"
	PathProfile  = "/api/v1/user/profile"
	PathMemories = "/api/v1/memories"
	PathStats    = "/api/v1/admin/stats"
	PathUsers    = "/api/v1/admin/users"
)

// Client is a remote client for the memory API. It is safe for concurrent
// use; per-session state lives in RemoteSession.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the base round tripper. It is still wrapped for tracing.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// WithTimeout bounds every call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a client for the API rooted at baseURL, e.g.
// "https://app.chaosmind.dev". All endpoints resolve against this one URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", baseURL)
	}

	c := &Client{
		base: u,
		http: &http.Client{Transport: http.DefaultTransport},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Transport = otelhttp.NewTransport(c.http.Transport)
	// Session cookies are relayed by hand; redirects must not leak them elsewhere.
	c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.base.String() }

// Session returns a MemoryLayer that sends the given cookies with every request.
func (c *Client) Session(cookies []*http.Cookie) *RemoteSession {
	return &RemoteSession{client: c, cookies: cookies}
}

// RemoteSession is a scoped client that "remembers" one caller's cookies.
type RemoteSession struct {
	client  *Client
	cookies []*http.Cookie
}

var _ MemoryLayer = (*RemoteSession)(nil)

type response struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

// send performs one request. It returns *APIError for non-2xx statuses.
func (s *RemoteSession) send(ctx context.Context, method, path string, payload any) (*response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.client.base.String()+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range s.cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	resp, err := s.client.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	out := &response{status: resp.StatusCode, body: data, cookies: resp.Cookies()}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	return out, nil
}

// errorMessage pulls the human-readable message out of an error body.
// Non-JSON bodies yield "".
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

// decode unmarshals a JSON body into T.
func decode[T any](data []byte) (T, error) {
	var target T
	if err := json.Unmarshal(data, &target); err != nil {
		return target, fmt.Errorf("decode response: %w", err)
	}
	return target, nil
}

func (s *RemoteSession) Login(ctx context.Context, email, password string) ([]*http.Cookie, error) {
	resp, err := s.send(ctx, http.MethodPost, PathLogin, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	return resp.cookies, nil
}

func (s *RemoteSession) Logout(ctx context.Context) ([]*http.Cookie, error) {
	resp, err := s.send(ctx, http.MethodPost, PathLogout, nil)
	if resp != nil {
		return resp.cookies, err
	}
	return nil, err
}

func (s *RemoteSession) Profile(ctx context.Context) (*schema.UserProfile, error) {
	resp, err := s.send(ctx, http.MethodGet, PathProfile, nil)
	if err != nil {
		return nil, err
	}
	// The API has answered both {"user": {...}} and the bare object.
	env, err := decode[struct {
		User *schema.UserProfile `json:"user"`
	}](resp.body)
	if err != nil {
		return nil, err
	}
	if env.User != nil {
		return env.User, nil
	}
	user, err := decode[schema.UserProfile](resp.body)
	if err != nil {
		return nil, err
	}
	if user.ID == "" && user.Email == "" {
		return nil, errors.New("decode response: empty profile")
	}
	return &user, nil
}

func (s *RemoteSession) ListMemories(ctx context.Context) ([]schema.Memory, error) {
	resp, err := s.send(ctx, http.MethodGet, PathMemories, nil)
	if err != nil {
		return nil, err
	}
	env, err := decode[struct {
		Memories []schema.Memory `json:"memories"`
	}](resp.body)
	if err != nil {
		return nil, err
	}
	if env.Memories == nil {
		return []schema.Memory{}, nil
	}
	for i := range env.Memories {
		if env.Memories[i].Tags == nil {
			env.Memories[i].Tags = []string{}
		}
	}
	return env.Memories, nil
}

func (s *RemoteSession) CreateMemory(ctx context.Context, m schema.NewMemory) error {
	if m.Tags == nil {
		m.Tags = []string{}
	}
	_, err := s.send(ctx, http.MethodPost, PathMemories, m)
	return err
}

func (s *RemoteSession) Stats(ctx context.Context) (*schema.Stats, error) {
	resp, err := s.send(ctx, http.MethodGet, PathStats, nil)
	if err != nil {
		return nil, err
	}
	env, err := decode[struct {
		Stats schema.Stats `json:"stats"`
	}](resp.body)
	if err != nil {
		return nil, err
	}
	return &env.Stats, nil
}

func (s *RemoteSession) ListUsers(ctx context.Context) ([]schema.UserProfile, error) {
	resp, err := s.send(ctx, http.MethodGet, PathUsers, nil)
	if err != nil {
		return nil, err
	}
	env, err := decode[struct {
		Users []schema.UserProfile `json:"users"`
	}](resp.body)
	if err != nil {
		return nil, err
	}
	if env.Users == nil {
		return []schema.UserProfile{}, nil
	}
	return env.Users, nil
}

func (s *RemoteSession) DeleteUser(ctx context.Context, userID string) error {
	_, err := s.send(ctx, http.MethodDelete, PathUsers+"/"+url.PathEscape(userID), nil)
	return err
}

func (s *RemoteSession) UpdateUserRole(ctx context.Context, userID string, role schema.Role) error {
	_, err := s.send(ctx, http.MethodPut, PathUsers+"/"+url.PathEscape(userID), map[string]string{
		"role": string(role),
	})
	return err
}
