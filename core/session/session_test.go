package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachesession/core/cache"
	"github.com/dmitrymomot/cachesession/core/session"
)

func freshSession(t *testing.T) *session.Session {
	t.Helper()
	mgr, err := session.New(cache.NewMemory())
	require.NoError(t, err)
	sess, err := mgr.Load(context.Background(), httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	return sess
}

func TestSessionState(t *testing.T) {
	t.Parallel()

	var absent *session.Session
	assert.Equal(t, session.StateAbsent, absent.State())
	assert.Equal(t, "absent", absent.State().String())

	sess := freshSession(t)
	assert.Equal(t, session.StateEmpty, sess.State())
	assert.True(t, sess.IsFresh())
	assert.Empty(t, sess.ID())

	sess.Set("k", "v")
	assert.Equal(t, session.StatePopulated, sess.State())

	sess.Remove()
	assert.Equal(t, session.StateDeleted, sess.State())
	assert.Equal(t, 0, sess.Len())

	sess.Set("k", "again")
	assert.Equal(t, session.StatePopulated, sess.State())
}

func TestSessionValues(t *testing.T) {
	t.Parallel()

	sess := freshSession(t)
	sess.Set("name", "alice")
	sess.Set("count", 3)

	v, ok := sess.GetString("name")
	assert.True(t, ok)
	assert.Equal(t, "alice", v)

	_, ok = sess.GetString("count")
	assert.False(t, ok)

	_, ok = sess.Get("missing")
	assert.False(t, ok)

	values := sess.Values()
	values["name"] = "mallory"
	v, _ = sess.GetString("name")
	assert.Equal(t, "alice", v, "Values returns a copy")

	sess.Delete("count")
	assert.Equal(t, 1, sess.Len())

	sess.Clear()
	assert.Equal(t, 0, sess.Len())
	assert.Equal(t, session.StateEmpty, sess.State())

	b, err := json.Marshal(sess)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestSessionIsModified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*session.Session)
		want   bool
	}{
		{"untouched", func(*session.Session) {}, false},
		{"set", func(s *session.Session) { s.Set("a", 1) }, true},
		{"set then delete", func(s *session.Session) { s.Set("a", 1); s.Delete("a") }, false},
		{"clear empty", func(s *session.Session) { s.Clear() }, false},
		{"remove", func(s *session.Session) { s.Remove() }, true},
		{"unencodable value", func(s *session.Session) { s.Set("ch", make(chan int)) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sess := freshSession(t)
			tt.mutate(sess)
			assert.Equal(t, tt.want, sess.IsModified())
		})
	}
}

func TestSessionConcurrentAccess(t *testing.T) {
	t.Parallel()

	sess := freshSession(t)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%5))
			sess.Set(key, i)
			sess.Get(key)
			sess.IsModified()
			sess.Values()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, sess.Len())
}

func TestContext(t *testing.T) {
	t.Parallel()

	_, ok := session.FromContext(context.Background())
	assert.False(t, ok)

	sess := freshSession(t)
	ctx := session.WithSession(context.Background(), sess)
	got, ok := session.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, sess, got)

	_, ok = session.FromContext(session.WithSession(context.Background(), nil))
	assert.False(t, ok)
}
