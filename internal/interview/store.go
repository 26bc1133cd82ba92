package interview

import (
	"fmt"
	"sync"
	"time"
)

// Store is the keyed collection of live and recently finished sessions.
// It has its own synchronization, independent of per-session locks:
// bookkeeping operations on different sessions never contend on session
// state, only briefly on the map itself.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store. Stores are lifecycle-scoped:
// constructed at process start (or per test case), not ambient state.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Put registers a session. At most one live session per id: if the id is
// already present and still non-terminal, the call fails. A terminal
// leftover under the same id is replaced.
func (st *Store) Put(sess *Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if existing, ok := st.sessions[sess.ID()]; ok {
		if !existing.State().IsTerminal() {
			return fmt.Errorf("%w: %s", ErrDuplicateSessionID, sess.ID())
		}
	}
	st.sessions[sess.ID()] = sess
	return nil
}

// Get retrieves a session by id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// Remove deletes a session by id. Removing an absent id is a no-op.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// All returns every registered session.
func (st *Store) All() []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*Session, 0, len(st.sessions))
	for _, sess := range st.sessions {
		out = append(out, sess)
	}
	return out
}

// Len returns the number of registered sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts every session whose state is terminal and whose terminal
// timestamp is older than the retention window. Non-terminal sessions are
// never evicted regardless of age. Returns the evicted ids.
func (st *Store) Sweep(now time.Time, retention time.Duration) []string {
	st.mu.Lock()
	defer st.mu.Unlock()

	var evicted []string
	for id, sess := range st.sessions {
		snap := sess.Snapshot()
		if !snap.State.IsTerminal() || snap.EndedAt == nil {
			continue
		}
		if now.Sub(*snap.EndedAt) > retention {
			delete(st.sessions, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}
