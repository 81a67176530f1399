package arena

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *fakeClock) {
	s := New(ttl)
	t.Cleanup(s.Close)
	clock := &fakeClock{t: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	s.mu.Lock()
	s.now = clock.Now
	s.mu.Unlock()
	return s, clock
}

func TestStore_OpenGetReplace(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)

	id := s.Open("owner", "memories", []string{"a"})
	require.NotEmpty(t, id)

	got, err := Load[[]string](s, id, "owner", "memories")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	assert.True(t, s.Replace(id, "owner", "memories", []string{"a", "b"}))
	got, err = Load[[]string](s, id, "owner", "memories")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestStore_BoundToOwnerAndPage(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	id := s.Open("owner", "admin", 1)

	_, err := s.Get(id, "someone-else", "admin")
	assert.ErrorIs(t, err, ErrViewNotFound)

	_, err = s.Get(id, "owner", "memories")
	assert.ErrorIs(t, err, ErrViewNotFound)

	assert.False(t, s.Replace(id, "someone-else", "admin", 2))
	v, err := s.Get(id, "owner", "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestStore_WrongTypeIsMissing(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	id := s.Open("o", "p", "string snapshot")

	_, err := Load[int](s, id, "o", "p")
	assert.ErrorIs(t, err, ErrViewNotFound)
}

func TestStore_Expiry(t *testing.T) {
	s, clock := newTestStore(t, time.Minute)
	id := s.Open("o", "p", 1)

	clock.Advance(30 * time.Second)
	assert.True(t, s.Active(id, "o", "p"))

	// Get slides the deadline forward.
	_, err := s.Get(id, "o", "p")
	require.NoError(t, err)
	clock.Advance(45 * time.Second)
	assert.True(t, s.Active(id, "o", "p"))

	clock.Advance(time.Minute)
	assert.False(t, s.Active(id, "o", "p"))
	assert.False(t, s.Replace(id, "o", "p", 2), "late results for an expired view must be discarded")

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 0, s.Len())
}

func TestStore_Drop(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	id := s.Open("o", "p", 1)
	s.Drop(id)
	s.Drop("unknown")

	_, err := s.Get(id, "o", "p")
	assert.ErrorIs(t, err, ErrViewNotFound)
}

func TestOwner(t *testing.T) {
	assert.Equal(t, "", Owner(""))
	assert.Equal(t, Owner("tok"), Owner("tok"))
	assert.NotEqual(t, Owner("tok"), Owner("tok2"))
	assert.Len(t, Owner("tok"), 64)
}

func TestStore_Concurrency(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			owner := fmt.Sprintf("o%d", i)
			id := s.Open(owner, "p", i)
			s.Replace(id, owner, "p", i+1)
			v, err := Load[int](s, id, owner, "p")
			if err != nil || v != i+1 {
				t.Errorf("Expected %d, got %v (%v)", i+1, v, err)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}

func TestStore_CloseIsIdempotent(t *testing.T) {
	s := New(0)
	s.Close()
	s.Close()
}

func TestStore_DropOwner(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	a1 := s.Open("alice", "admin", 1)
	s.Open("alice", "dashboard", 2)
	b := s.Open("bob", "admin", 3)

	assert.Equal(t, 2, s.DropOwner("alice"))
	assert.False(t, s.Active(a1, "alice", "admin"))
	assert.True(t, s.Active(b, "bob", "admin"))
	assert.Equal(t, 0, s.DropOwner("alice"))
}

func TestUpdate_OverlappingWritesCompose(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	id := s.Open("owner", "admin", []string{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok := Update(s, id, "owner", "admin", func(cur []string) []string {
				return append(cur[:len(cur):len(cur)], fmt.Sprint(i))
			})
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()

	got, err := Load[[]string](s, id, "owner", "admin")
	require.NoError(t, err)
	assert.Len(t, got, 50, "no update is lost")
}

func TestUpdate_GoneOrWrongType(t *testing.T) {
	s, clock := newTestStore(t, time.Minute)
	id := s.Open("owner", "admin", 1)

	assert.False(t, Update(s, id, "owner", "admin", func(string) string { return "x" }))
	assert.False(t, Update(s, id, "other", "admin", func(int) int { return 2 }))
	assert.True(t, Update(s, id, "owner", "admin", func(n int) int { return n + 1 }))

	got, err := Load[int](s, id, "owner", "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	clock.Advance(2 * time.Minute)
	assert.False(t, Update(s, id, "owner", "admin", func(n int) int { return n + 1 }))
}

func TestStore_MaxViewsEvictsClosestToExpiry(t *testing.T) {
	s, clock := newTestStore(t, time.Minute)
	WithMaxViews(2)(s)

	first := s.Open("a", "p", 1)
	clock.Advance(time.Second)
	second := s.Open("a", "p", 2)
	clock.Advance(time.Second)
	third := s.Open("b", "p", 3)

	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Active(first, "a", "p"))
	assert.True(t, s.Active(second, "a", "p"))
	assert.True(t, s.Active(third, "b", "p"))

	for i := 0; i < 100; i++ {
		s.Open("", "memories/new", i)
	}
	assert.Equal(t, 2, s.Len())
}
