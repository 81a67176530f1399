// Package arena keeps the short-lived view snapshots behind each rendered page.
//
// A snapshot is created when a page is activated and lives until it expires or
// is dropped. Every entry is bound to the browser session that opened it and to
// the page that owns it, so a view id is useless anywhere else.
package arena

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrViewNotFound is returned when a view id is unknown, expired, or belongs
// to another session or page.
var ErrViewNotFound = errors.New("view not found")

const (
	// DefaultTTL is how long an idle view survives.
	DefaultTTL = 30 * time.Minute
	// DefaultMaxViews bounds the number of live views across all sessions.
	DefaultMaxViews = 10000
)

type entry struct {
	owner    string
	page     string
	snapshot any
	expires  time.Time
}

// Store is a thread-safe map of view id to snapshot.
type Store struct {
	mu    sync.RWMutex
	views map[string]*entry
	ttl   time.Duration
	max   int
	now   func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithMaxViews caps the number of stored views. When the store is full,
// Open evicts the view closest to expiry.
func WithMaxViews(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.max = n
		}
	}
}

// New creates a store and starts its janitor. Call Close to stop it.
func New(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		views: make(map[string]*entry),
		ttl:   ttl,
		max:   DefaultMaxViews,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	s.wg.Add(1)
	go s.janitor(interval)
	return s
}

// Owner derives the owner fingerprint from an opaque session value.
// The value is hashed as-is and never interpreted.
func Owner(sessionValue string) string {
	if sessionValue == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(sessionValue))
	return hex.EncodeToString(sum[:])
}

// Open registers a fresh snapshot and returns its view id.
func (s *Store) Open(owner, page string, snapshot any) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.views) >= s.max {
		s.evict()
	}
	s.views[id] = &entry{
		owner:    owner,
		page:     page,
		snapshot: snapshot,
		expires:  s.now().Add(s.ttl),
	}
	return id
}

// Get returns the snapshot for id and extends its lifetime.
func (s *Store) Get(id, owner, page string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id, owner, page)
	if !ok {
		return nil, ErrViewNotFound
	}
	e.expires = s.now().Add(s.ttl)
	return e.snapshot, nil
}

// Replace swaps in a new snapshot for a view that is still live. It reports
// false when the view has gone away, in which case the snapshot is discarded.
func (s *Store) Replace(id, owner, page string, snapshot any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id, owner, page)
	if !ok {
		return false
	}
	e.snapshot = snapshot
	e.expires = s.now().Add(s.ttl)
	return true
}

// Active reports whether id still names a live view.
func (s *Store) Active(id, owner, page string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.lookup(id, owner, page)
	return ok
}

// Drop forgets a view. Unknown ids are ignored.
func (s *Store) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, id)
}

// DropOwner forgets every view opened by owner and returns how many went.
func (s *Store) DropOwner(owner string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.views {
		if e.owner == owner {
			delete(s.views, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored views, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// Sweep removes expired views and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.views {
		if !now.Before(e.expires) {
			delete(s.views, id)
			removed++
		}
	}
	return removed
}

// Close stops the janitor and waits for it to exit.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// evict drops expired views, or the one closest to expiry when none have
// expired. MUST be called while holding s.mu.
func (s *Store) evict() {
	now := s.now()
	var oldest string
	var oldestAt time.Time
	for id, e := range s.views {
		if !now.Before(e.expires) {
			delete(s.views, id)
			continue
		}
		if oldest == "" || e.expires.Before(oldestAt) {
			oldest, oldestAt = id, e.expires
		}
	}
	if len(s.views) >= s.max && oldest != "" {
		delete(s.views, oldest)
	}
}

// lookup MUST be called while holding s.mu.
func (s *Store) lookup(id, owner, page string) (*entry, bool) {
	e, ok := s.views[id]
	if !ok || e.owner != owner || e.page != page {
		return nil, false
	}
	if !s.now().Before(e.expires) {
		return nil, false
	}
	return e, true
}

func (s *Store) janitor(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}

// Load retrieves a type-safe snapshot. A snapshot of another type is treated
// as missing.
func Load[T any](s *Store, id, owner, page string) (T, error) {
	var zero T
	val, err := s.Get(id, owner, page)
	if err != nil {
		return zero, err
	}
	v, ok := val.(T)
	if !ok {
		return zero, ErrViewNotFound
	}
	return v, nil
}

// Update applies fn to the current snapshot of a live view and stores the
// result, all under the store lock. Writes that overlap on one view therefore
// compose instead of overwriting each other. It reports false when the view
// has gone away or holds another type.
func Update[T any](s *Store, id, owner, page string, fn func(T) T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id, owner, page)
	if !ok {
		return false
	}
	cur, ok := e.snapshot.(T)
	if !ok {
		return false
	}
	e.snapshot = fn(cur)
	e.expires = s.now().Add(s.ttl)
	return true
}
