package session

import (
	"errors"
	"sync"
	"time"

	"github.com/hupe1980/smtgo/model"
)

// ErrNotFound is returned for ids that are not live.
var ErrNotFound = errors.New("session not found")

// Table maps live session ids to their overrides.
// All operations are linearizable.
type Table struct {
	mu       sync.RWMutex
	sessions map[model.SessionID]*model.Session
	next     model.SessionID
	now      func() time.Time
}

// NewTable creates an empty table. A nil clock defaults to time.Now.
func NewTable(now func() time.Time) *Table {
	if now == nil {
		now = time.Now
	}
	return &Table{
		sessions: make(map[model.SessionID]*model.Session),
		now:      now,
	}
}

// Create stores a deep copy of overrides under a fresh id.
// Overrides must already be validated by the caller.
func (t *Table) Create(overrides model.Weights) model.SessionID {
	s := &model.Session{
		Overrides: overrides.Clone(),
		CreatedAt: t.now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	s.ID = t.next
	t.sessions[s.ID] = s
	return s.ID
}

// Destroy removes a live session.
func (t *Table) Destroy(id model.SessionID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(t.sessions, id)
	return nil
}

// Lookup returns the overrides of a live session. The returned map is shared
// with the table and must be treated as read-only.
func (t *Table) Lookup(id model.SessionID) (model.Weights, error) {
	t.mu.RLock()
	s, ok := t.sessions[id]
	t.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return s.Overrides, nil
}

// Get returns a copy of the session record.
func (t *Table) Get(id model.SessionID) (model.Session, bool) {
	t.mu.RLock()
	s, ok := t.sessions[id]
	t.mu.RUnlock()

	if !ok {
		return model.Session{}, false
	}
	return model.Session{ID: s.ID, Overrides: s.Overrides.Clone(), CreatedAt: s.CreatedAt}, true
}

// Len returns the number of live sessions.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// Clear invalidates every live session and returns how many were dropped.
// The id counter is not reset.
func (t *Table) Clear() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.sessions)
	clear(t.sessions)
	return n
}
