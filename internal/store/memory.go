// internal/store/memory.go
//
// In-memory store of live Word Hunt sessions.
// Responsibilities:
//   - Keep *Entry values (session + adapters + timing) keyed by session ID.
//   - Serialize operations on one session through the entry's mutex.
//   - Refuse moves once the play deadline has passed or the session ended.
//   - Evict idle entries from a janitor goroutine until Stop is called.
//
// Characteristics:
//   - Concurrency-safe via RWMutex on the map plus a mutex per entry.
//   - State is lost when the process restarts; finished sessions are
//     persisted by the HTTP layer before that matters.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/austinraben/wordhunt/internal/game"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrTimeUp   = errors.New("time is up")
	ErrEnded    = errors.New("session ended")
)

// Entry is one live session and everything needed to drive it.
type Entry struct {
	mu sync.Mutex

	Session  *game.Session
	Click    *game.ClickAdapter
	Drag     *game.DragAdapter
	GridID   string
	Player   string // empty for guests
	Started  time.Time
	Deadline time.Time

	Ended     bool
	Persisted bool

	lastSeen time.Time
}

// NewEntry wraps sess with both input adapters. Play is allowed until
// started+limit.
func NewEntry(sess *game.Session, gridID, player string, started time.Time, limit time.Duration) *Entry {
	return &Entry{
		Session:  sess,
		Click:    game.NewClickAdapter(sess),
		Drag:     game.NewDragAdapter(sess),
		GridID:   gridID,
		Player:   player,
		Started:  started,
		Deadline: started.Add(limit),
		lastSeen: started,
	}
}

// Remaining is the play time left at now, never negative.
func (e *Entry) Remaining(now time.Time) time.Duration {
	if d := e.Deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Store defines the persistence interface for live sessions.
type Store interface {
	// Save adds or replaces an entry under its session ID.
	Save(ctx context.Context, e *Entry) error

	// Get retrieves an entry by ID without locking it.
	Get(ctx context.Context, id string) (*Entry, error)

	// With runs fn while holding the entry's lock.
	With(ctx context.Context, id string, fn func(*Entry) error) error

	// Play is With for moves: it fails with ErrEnded or ErrTimeUp instead
	// of calling fn when the session can no longer be played.
	Play(ctx context.Context, id string, fn func(*Entry) error) error

	// Delete drops an entry. Missing IDs are not an error.
	Delete(ctx context.Context, id string) error

	// Len reports the number of live entries.
	Len() int
}

// Options tunes the memory store. Zero values fall back to defaults.
type Options struct {
	TTL           time.Duration    // idle time before eviction (default 30m)
	SweepInterval time.Duration    // janitor tick (default 30s)
	Now           func() time.Time // clock (default time.Now)
}

// Memory is the map-based Store implementation.
type Memory struct {
	mu      sync.RWMutex      // guards entries
	entries map[string]*Entry // keyed by Session.ID

	ttl      time.Duration
	interval time.Duration
	now      func() time.Time

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewMemoryStore constructs an empty store. Call Start to run the janitor.
func NewMemoryStore(opts Options) *Memory {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Memory{
		entries:  make(map[string]*Entry),
		ttl:      opts.TTL,
		interval: opts.SweepInterval,
		now:      opts.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (m *Memory) Save(ctx context.Context, e *Entry) error {
	if e == nil || e.Session == nil {
		return errors.New("store: entry without session")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Session.ID] = e
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
}

func (m *Memory) With(ctx context.Context, id string, fn func(*Entry) error) error {
	e, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = m.now()
	return fn(e)
}

func (m *Memory) Play(ctx context.Context, id string, fn func(*Entry) error) error {
	return m.With(ctx, id, func(e *Entry) error {
		switch {
		case e.Ended:
			return ErrEnded
		case !m.now().Before(e.Deadline):
			return ErrTimeUp
		}
		return fn(e)
	})
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Start launches the janitor goroutine. Later calls are no-ops.
func (m *Memory) Start() {
	if m.started.CompareAndSwap(false, true) {
		go m.janitor()
	}
}

// Stop terminates the janitor and waits for it to exit. Safe to call more
// than once.
func (m *Memory) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	if m.started.Load() {
		<-m.done
	}
}

func (m *Memory) janitor() {
	defer close(m.done)
	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-t.C:
			if n := m.Sweep(); n > 0 {
				log.Debug().Int("evicted", n).Int("live", m.Len()).Msg("session sweep")
			}
		}
	}
}

// Sweep evicts entries idle for longer than the TTL and returns how many.
func (m *Memory) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.entries {
		// Busy entries are skipped this round.
		if !e.mu.TryLock() {
			continue
		}
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(m.entries, id)
			n++
		}
	}
	return n
}
