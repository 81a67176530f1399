// Package session keeps the CLI's API cookies on disk between commands.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hargabyte/chaos-web/internal/vault"
)

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("no saved session")

// storedCookie is the on-disk form of a cookie. Only what is needed to send
// it back is kept; the value itself stays opaque.
type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// envelope is the file format: the salt the key was derived with and the
// sealed cookie list.
type envelope struct {
	Salt []byte `json:"salt"`
	Data string `json:"data"`
}

// File is an encrypted cookie jar backed by a single file.
type File struct {
	Path       string
	passphrase string
	mu         sync.Mutex // Protects concurrent writes to the filesystem
	now        func() time.Time
}

// New returns a session file at path sealed with a key derived from
// passphrase. Every save uses a fresh salt.
func New(path, passphrase string) *File {
	return &File{Path: path, passphrase: passphrase, now: time.Now}
}

// Save writes cookies atomically with mode 0600.
func (f *File) Save(cookies []*http.Cookie) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Value == "" || c.MaxAge < 0 {
			continue
		}
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value, Expires: c.Expires})
	}
	if len(stored) == 0 {
		return fmt.Errorf("save session: the API issued no cookies")
	}

	plain, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	salt, err := vault.NewSalt()
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	sealed, err := vault.Seal(plain, vault.DeriveKey(f.passphrase, salt))
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}
	data, err := json.Marshal(envelope{Salt: salt, Data: sealed})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	tempPath := f.Path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return err
	}
	// Readers see either the old file or the new one.
	return os.Rename(tempPath, f.Path)
}

// Load returns the saved cookies, dropping any that have expired. It returns
// ErrNoSession if there is no file or nothing usable in it.
func (f *File) Load() ([]*http.Cookie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || len(env.Salt) == 0 {
		return nil, fmt.Errorf("open session %s: unrecognised format", f.Path)
	}
	plain, err := vault.Open(env.Data, vault.DeriveKey(f.passphrase, env.Salt))
	if err != nil {
		return nil, fmt.Errorf("open session %s: %w", f.Path, err)
	}
	var stored []storedCookie
	if err := json.Unmarshal(plain, &stored); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", f.Path, err)
	}

	now := f.now()
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, s := range stored {
		if !s.Expires.IsZero() && !s.Expires.After(now) {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: s.Name, Value: s.Value, Expires: s.Expires})
	}
	if len(cookies) == 0 {
		return nil, ErrNoSession
	}
	return cookies, nil
}

// Clear removes the file. A missing file is not an error.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
