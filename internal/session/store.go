// Package session implements the proxy's authentication session store
// (spec.md §4.5): a concurrent, TTL-evicting, keyed map from opaque
// session ID to AuthSession, swept on an interval and safe for concurrent
// use by the flow engine's handlers.
package session

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ScottyLabs/terrier/internal/samlxml"
)

const (
	// TTL is how long a session survives without being consumed, per
	// spec.md §4.5.
	TTL = 15 * time.Minute
	// CleanupInterval is how often the sweeper scans for expired entries.
	CleanupInterval = 5 * time.Minute

	shardCount = 16
)

// AuthSession tracks one in-flight authentication round trip end to end.
// Its fields are populated monotonically as the flow engine advances the
// session through its state machine (spec.md §3, §4.6): once a field is
// set it is never unset, only ever set again with a later value for the
// same logical step.
type AuthSession struct {
	ID                 string
	OriginalRequestID  string
	SPAcsURL           string
	SPEntityID         string
	RelayState         string
	SelectedUniversity string
	ProxyRequestID     string
	CreatedAt          time.Time
}

func (s AuthSession) expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > TTL
}

type shard struct {
	mu      sync.Mutex
	entries map[string]AuthSession
}

// Store is a sharded, TTL-evicting session table. Sharding (rather than one
// global mutex) gives the per-entry lock granularity spec.md §4.5 asks for
// without requiring a full lock-free hash map.
type Store struct {
	shards [shardCount]*shard
}

// NewStore constructs an empty session store.
func NewStore() *Store {
	st := &Store{}
	for i := range st.shards {
		st.shards[i] = &shard{entries: make(map[string]AuthSession)}
	}
	return st
}

func (st *Store) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return st.shards[h.Sum32()%shardCount]
}

// Create mints a new session ID and stores an AuthSession with the given
// originating request fields, returning the stored session (its ID field
// holds the new session ID).
func (st *Store) Create(originalRequestID, spAcsURL, spEntityID, relayState string) AuthSession {
	sess := AuthSession{
		ID:                samlxml.NewID(),
		OriginalRequestID: originalRequestID,
		SPAcsURL:          spAcsURL,
		SPEntityID:        spEntityID,
		RelayState:        relayState,
		CreatedAt:         time.Now(),
	}
	sh := st.shardFor(sess.ID)
	sh.mu.Lock()
	sh.entries[sess.ID] = sess
	sh.mu.Unlock()
	return sess
}

// Get returns a copy of the session for id, evicting and reporting absent
// if it has expired. The caller receives a value, not a pointer, so it is
// safe to hold across an await boundary without risking a data race with
// concurrent mutation.
func (st *Store) Get(id string) (AuthSession, bool) {
	sh := st.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sess, ok := sh.entries[id]
	if !ok {
		return AuthSession{}, false
	}
	if sess.expired(time.Now()) {
		delete(sh.entries, id)
		return AuthSession{}, false
	}
	return sess, true
}

// UpdateUniversity records the user's discovery selection.
func (st *Store) UpdateUniversity(id, entityID string) bool {
	return st.mutate(id, func(s *AuthSession) { s.SelectedUniversity = entityID })
}

// UpdateProxyRequestID records the ID the proxy used for the AuthnRequest
// it sent upstream, so the ACS leg can check InResponseTo against it.
func (st *Store) UpdateProxyRequestID(id, requestID string) bool {
	return st.mutate(id, func(s *AuthSession) { s.ProxyRequestID = requestID })
}

func (st *Store) mutate(id string, fn func(*AuthSession)) bool {
	sh := st.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sess, ok := sh.entries[id]
	if !ok || sess.expired(time.Now()) {
		delete(sh.entries, id)
		return false
	}
	fn(&sess)
	sh.entries[id] = sess
	return true
}

// Remove deletes and returns the session for id, used by the ACS handler
// which consumes a session exactly once (spec.md §4.6).
func (st *Store) Remove(id string) (AuthSession, bool) {
	sh := st.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sess, ok := sh.entries[id]
	delete(sh.entries, id)
	if !ok || sess.expired(time.Now()) {
		return AuthSession{}, false
	}
	return sess, true
}

// cleanupExpired sweeps every shard, removing entries past TTL.
func (st *Store) cleanupExpired() int {
	now := time.Now()
	removed := 0
	for _, sh := range st.shards {
		sh.mu.Lock()
		for id, sess := range sh.entries {
			if sess.expired(now) {
				delete(sh.entries, id)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// RunCleanupLoop sweeps expired sessions every CleanupInterval until stop
// is closed. It never terminates the process on error — there is no error
// path, only bookkeeping — matching spec.md §5's "background tasks
// log-and-continue" rule.
func (st *Store) RunCleanupLoop(stop <-chan struct{}, log *logrus.Logger) {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			removed := st.cleanupExpired()
			if removed > 0 {
				log.WithField("removed", removed).Debug("swept expired sessions")
			}
		}
	}
}
