package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"
)

var emptyObject = []byte("{}")

// Session is the per-request working set. Values must be JSON-serializable.
// Numbers loaded from the cache come back as json.Number.
//
// A Session is safe for concurrent use by goroutines of the same request.
type Session struct {
	mu       sync.RWMutex
	id       string
	values   map[string]any
	baseline []byte
	removed  bool
	gone     bool
}

func newSession() *Session {
	return &Session{values: map[string]any{}, baseline: emptyObject}
}

// newLoaded decodes a cached entry. ok is false when the payload is JSON null
// or not an object, both of which count as a miss.
func newLoaded(id string, payload []byte) (*Session, bool) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var values map[string]any
	if err := dec.Decode(&values); err != nil || values == nil {
		return nil, false
	}

	baseline, err := json.Marshal(values)
	if err != nil {
		return nil, false
	}
	return &Session{id: id, values: values, baseline: baseline}, true
}

// ID returns the identifier the session is stored under. It is empty until
// the first write of a fresh session.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// IsFresh reports whether the session has no established identifier.
func (s *Session) IsFresh() bool {
	return s.ID() == ""
}

// State returns the session's tag. A nil *Session is StateAbsent.
func (s *Session) State() State {
	if s == nil {
		return StateAbsent
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.removed && len(s.values) == 0:
		return StateDeleted
	case len(s.values) == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the value under key if it is a string.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Set stores value under key.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes key.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Clear removes every key but keeps the session and its identifier.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.values)
}

// Remove deletes the whole session: the cache entry is dropped and the cookie
// cleared when the response is stored. Values set after Remove are persisted
// under a newly minted identifier.
func (s *Session) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = true
	s.gone = false
	clear(s.values)
}

// Values returns a shallow copy of the session values.
func (s *Session) Values() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// Len returns the number of keys.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// IsModified reports whether the values differ from what was loaded. The
// comparison is over canonical JSON, so equal content written back counts as
// unmodified. Values that cannot be encoded count as modified so the error
// surfaces on store.
func (s *Session) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.removed && !s.gone {
		return true
	}
	current, err := json.Marshal(s.values)
	if err != nil {
		return true
	}
	return !bytes.Equal(current, s.baseline)
}

// MarshalJSON encodes the session values.
func (s *Session) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(s.values)
}

func (s *Session) snapshot() (id string, pendingDrop bool, payload []byte, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, err = json.Marshal(s.values)
	if err != nil {
		return "", false, nil, errors.Join(ErrEncode, err)
	}
	return s.id, s.removed && !s.gone, payload, nil
}

// dropped records that the cache entry of a removed session is gone.
func (s *Session) dropped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
	s.gone = true
	s.baseline = emptyObject
}

// committed records a successful write so a repeated store is a no-op.
func (s *Session) committed(id string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.removed = false
	s.gone = false
	s.baseline = payload
}

func (s *Session) String() string {
	return fmt.Sprintf("session(%s, %d keys)", s.State(), s.Len())
}
