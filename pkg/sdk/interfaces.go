package sdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hargabyte/chaos-web/pkg/schema"
)

// APIError is returned for any non-2xx response from the memory API.
// Message holds the server-provided "message" or "error" field, if any.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("memory api: status %d", e.Status)
	}
	return fmt.Sprintf("memory api: status %d: %s", e.Status, e.Message)
}

// Unauthenticated reports whether the API rejected the session.
func (e *APIError) Unauthenticated() bool { return e.Status == http.StatusUnauthorized }

// Forbidden reports whether the session lacks permission for the call.
func (e *APIError) Forbidden() bool { return e.Status == http.StatusForbidden }

// --- Functional Interfaces (Interface Segregation) ---

// Authenticator opens and closes sessions. Cookies returned are opaque and
// must be relayed to the caller unchanged.
type Authenticator interface {
	Login(ctx context.Context, email, password string) ([]*http.Cookie, error)
	Logout(ctx context.Context) ([]*http.Cookie, error)
}

// ProfileReader fetches the current user.
type ProfileReader interface {
	Profile(ctx context.Context) (*schema.UserProfile, error)
}

// MemoryReader lists the memories of the caller's workspace.
type MemoryReader interface {
	ListMemories(ctx context.Context) ([]schema.Memory, error)
}

// MemoryWriter creates memories.
type MemoryWriter interface {
	CreateMemory(ctx context.Context, m schema.NewMemory) error
}

// AdminReader reads the admin-only aggregates and user list.
type AdminReader interface {
	Stats(ctx context.Context) (*schema.Stats, error)
	ListUsers(ctx context.Context) ([]schema.UserProfile, error)
}

// AdminWriter mutates users. Only privileged sessions may call it.
type AdminWriter interface {
	DeleteUser(ctx context.Context, userID string) error
	UpdateUserRole(ctx context.Context, userID string, role schema.Role) error
}

// --- Composite Interfaces ---

// MemoryLayer is everything a page may ask of the memory API on behalf of
// one browser session.
type MemoryLayer interface {
	Authenticator
	ProfileReader
	MemoryReader
	MemoryWriter
	AdminReader
	AdminWriter
}
