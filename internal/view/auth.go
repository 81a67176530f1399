package view

import (
	"context"
	"net/http"
	"strings"
)

const (
	loginRejected = "Invalid credentials"
	loginFailed   = "An error occurred"
	loginMissing  = "Email and password are required"
)

// Login is the snapshot behind /login.
type Login struct {
	State
	Email string
}

// Login submits credentials. On success it returns the cookies the API
// issued and a redirect to the dashboard. On failure it stays on the page
// with the server's message, or a fallback when there is none.
func (c *Controller) Login(ctx context.Context, email, password string) (Login, []*http.Cookie, Effect) {
	l := Login{Email: strings.TrimSpace(email)}
	if l.Email == "" || password == "" {
		l.Error = loginMissing
		return l, nil, render()
	}

	cookies, err := c.api.Login(ctx, l.Email, password)
	r := observe(c, CallLogin, cookies, err)
	if r.Kind == KindOK {
		return l, r.Value, redirect(DashboardPath)
	}

	// A 401 here means bad credentials, not an expired session.
	switch {
	case r.Message != "":
		l.Error = r.Message
	case r.Status == 0:
		l.Error = loginFailed
	default:
		l.Error = loginRejected
	}
	return l, nil, render()
}

// Logout asks the API to end the session and always sends the user to the
// login page, whatever the API answered. Any cookies the API set are returned
// for relaying.
func (c *Controller) Logout(ctx context.Context) ([]*http.Cookie, Effect) {
	cookies, err := c.api.Logout(ctx)
	observe(c, CallLogout, cookies, err)
	return cookies, redirect(LoginPath)
}
