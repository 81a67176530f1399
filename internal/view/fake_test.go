package view

import (
	"context"
	"errors"
	"net/http"

	"github.com/hargabyte/chaos-web/pkg/schema"
	"github.com/hargabyte/chaos-web/pkg/sdk"
)

var errNetwork = errors.New("dial tcp: connection refused")

func apiErr(status int, msg string) error {
	return &sdk.APIError{Status: status, Message: msg}
}

// fakeAPI implements sdk.MemoryLayer and records which calls were made.
type fakeAPI struct {
	calls []string

	loginCookies []*http.Cookie
	loginErr     error
	logoutErr    error

	profile    *schema.UserProfile
	profileErr error

	memories    []schema.Memory
	memoriesErr error

	created   []schema.NewMemory
	createErr error

	stats    *schema.Stats
	statsErr error
	users    []schema.UserProfile
	usersErr error

	deleteErr error
	roleErr   error
	roles     map[string]schema.Role
}

var _ sdk.MemoryLayer = (*fakeAPI)(nil)

func (f *fakeAPI) Login(ctx context.Context, email, password string) ([]*http.Cookie, error) {
	f.calls = append(f.calls, "login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginCookies, nil
}

func (f *fakeAPI) Logout(ctx context.Context) ([]*http.Cookie, error) {
	f.calls = append(f.calls, "logout")
	return nil, f.logoutErr
}

func (f *fakeAPI) Profile(ctx context.Context) (*schema.UserProfile, error) {
	f.calls = append(f.calls, "profile")
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeAPI) ListMemories(ctx context.Context) ([]schema.Memory, error) {
	f.calls = append(f.calls, "memories")
	if f.memoriesErr != nil {
		return nil, f.memoriesErr
	}
	return f.memories, nil
}

func (f *fakeAPI) CreateMemory(ctx context.Context, m schema.NewMemory) error {
	f.calls = append(f.calls, "create")
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, m)
	return nil
}

func (f *fakeAPI) Stats(ctx context.Context) (*schema.Stats, error) {
	f.calls = append(f.calls, "stats")
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]schema.UserProfile, error) {
	f.calls = append(f.calls, "users")
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return f.users, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, userID string) error {
	f.calls = append(f.calls, "delete:"+userID)
	return f.deleteErr
}

func (f *fakeAPI) UpdateUserRole(ctx context.Context, userID string, role schema.Role) error {
	f.calls = append(f.calls, "role:"+userID)
	if f.roleErr != nil {
		return f.roleErr
	}
	if f.roles == nil {
		f.roles = map[string]schema.Role{}
	}
	f.roles[userID] = role
	return nil
}

type countingRecorder map[string]int

func (r countingRecorder) Outcome(call string, k Kind) { r[call+":"+k.String()]++ }
