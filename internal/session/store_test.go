package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	st := NewStore()
	sess := st.Create("_req1", "https://sp.example.edu/acs", "https://sp.example.edu", "rs1")
	require.NotEmpty(t, sess.ID)

	got, ok := st.Get(sess.ID)
	require.True(t, ok)
	require.Equal(t, "https://sp.example.edu/acs", got.SPAcsURL)
	require.Equal(t, "https://sp.example.edu", got.SPEntityID)
	require.Equal(t, "rs1", got.RelayState)
}

func TestMonotonicFieldUpdates(t *testing.T) {
	st := NewStore()
	sess := st.Create("_req1", "https://sp.example.edu/acs", "https://sp.example.edu", "")

	ok := st.UpdateUniversity(sess.ID, "https://idp.example.edu/shibboleth")
	require.True(t, ok)

	ok = st.UpdateProxyRequestID(sess.ID, "_proxyreq1")
	require.True(t, ok)

	got, ok := st.Get(sess.ID)
	require.True(t, ok)
	require.Equal(t, "https://idp.example.edu/shibboleth", got.SelectedUniversity)
	require.Equal(t, "_proxyreq1", got.ProxyRequestID)
	// original fields remain untouched by later updates.
	require.Equal(t, "https://sp.example.edu/acs", got.SPAcsURL)
}

func TestExpiredSessionIsEvicted(t *testing.T) {
	st := NewStore()
	sess := st.Create("_req1", "https://sp.example.edu/acs", "https://sp.example.edu", "")

	sh := st.shardFor(sess.ID)
	sh.mu.Lock()
	backdated := sh.entries[sess.ID]
	backdated.CreatedAt = time.Now().Add(-20 * time.Minute)
	sh.entries[sess.ID] = backdated
	sh.mu.Unlock()

	_, ok := st.Get(sess.ID)
	require.False(t, ok)

	// eviction on Get must actually remove the entry, not just hide it.
	sh.mu.Lock()
	_, stillPresent := sh.entries[sess.ID]
	sh.mu.Unlock()
	require.False(t, stillPresent)
}

func TestRemoveConsumesSessionOnce(t *testing.T) {
	st := NewStore()
	sess := st.Create("_req1", "https://sp.example.edu/acs", "https://sp.example.edu", "")

	got, ok := st.Remove(sess.ID)
	require.True(t, ok)
	require.Equal(t, sess.ID, got.ID)

	_, ok = st.Remove(sess.ID)
	require.False(t, ok)
}

func TestCleanupExpiredSweepsAllShards(t *testing.T) {
	st := NewStore()
	ids := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		sess := st.Create("_req", "https://sp.example.edu/acs", "https://sp.example.edu", "")
		ids = append(ids, sess.ID)
	}
	for _, id := range ids {
		sh := st.shardFor(id)
		sh.mu.Lock()
		backdated := sh.entries[id]
		backdated.CreatedAt = time.Now().Add(-20 * time.Minute)
		sh.entries[id] = backdated
		sh.mu.Unlock()
	}

	removed := st.cleanupExpired()
	require.Equal(t, 8, removed)
}
