package testfixtures

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/example/facility-booking/internal/kvstore"
	"github.com/example/facility-booking/internal/persistence"
)

// Harness wires every repository to one key-value store with a deterministic
// clock and id sequence. Log output is captured by Logs.
type Harness struct {
	Store   kvstore.Store
	Adapter *kvstore.Adapter
	Clock   *Clock
	IDs     *Sequence
	Logger  *logrus.Entry
	Logs    *logtest.Hook

	Bookings      *persistence.BookingStore
	Users         *persistence.UserStore
	Notifications *persistence.NotificationStore
	Facilities    *persistence.FacilityStore
	Sessions      *persistence.SessionStore
}

// HarnessOption configures NewHarness.
type HarnessOption func(*harnessConfig)

type harnessConfig struct {
	store kvstore.Store
	seed  bool
}

// WithStore runs the harness against store instead of a fresh memory store.
// A nil store models a missing persistent medium.
func WithStore(store kvstore.Store) HarnessOption {
	return func(c *harnessConfig) {
		c.store = store
	}
}

// WithoutSeed leaves every collection key absent.
func WithoutSeed() HarnessOption {
	return func(c *harnessConfig) {
		c.seed = false
	}
}

// NewHarness returns repositories over a seeded in-memory store.
func NewHarness(t testing.TB, opts ...HarnessOption) *Harness {
	t.Helper()

	cfg := harnessConfig{store: kvstore.NewMemoryStore(), seed: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	entry := logrus.NewEntry(logger)

	h := &Harness{
		Store:  cfg.store,
		Clock:  NewClock(time.Time{}),
		IDs:    NewSequence("id"),
		Logger: entry,
		Logs:   hook,
	}
	h.Adapter = kvstore.NewAdapter(cfg.store, entry)

	repoOpts := []persistence.Option{
		persistence.WithClock(h.Clock.NowFunc()),
		persistence.WithIDGenerator(h.IDs.Func()),
	}
	if cfg.seed {
		persistence.Seed(context.Background(), h.Adapter, repoOpts...)
	}

	h.Bookings = persistence.NewBookingStore(h.Adapter, repoOpts...)
	h.Users = persistence.NewUserStore(h.Adapter, repoOpts...)
	h.Notifications = persistence.NewNotificationStore(h.Adapter, repoOpts...)
	h.Facilities = persistence.NewFacilityStore(h.Adapter, repoOpts...)
	h.Sessions = persistence.NewSessionStore(h.Adapter)
	return h
}

// NewSQLiteHarness is NewHarness backed by a temporary SQLite file.
func NewSQLiteHarness(t testing.TB, opts ...HarnessOption) *Harness {
	t.Helper()

	store, err := kvstore.OpenSQLite(filepath.Join(t.TempDir(), "facility.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close sqlite store: %v", err)
		}
	})
	return NewHarness(t, append([]HarnessOption{WithStore(store)}, opts...)...)
}

// Sequence hands out "prefix-1", "prefix-2", ... and remembers what it issued,
// so tests can name the record a repository just created.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	issued []string
}

// NewSequence returns a sequence using prefix, or "id" when empty.
func NewSequence(prefix string) *Sequence {
	if prefix == "" {
		prefix = "id"
	}
	return &Sequence{prefix: prefix}
}

// Next issues the next id.
func (s *Sequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.prefix + "-" + strconv.Itoa(len(s.issued)+1)
	s.issued = append(s.issued, id)
	return id
}

// Func exposes Next for injection. A nil sequence yields empty ids.
func (s *Sequence) Func() func() string {
	if s == nil {
		return func() string { return "" }
	}
	return s.Next
}

// Last returns the most recently issued id, or "" before the first.
func (s *Sequence) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.issued) == 0 {
		return ""
	}
	return s.issued[len(s.issued)-1]
}

// Issued returns every id handed out so far, oldest first.
func (s *Sequence) Issued() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.issued...)
}
