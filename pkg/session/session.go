package session

// Session is the per-request payload decoded from (and re-encoded into) the
// transport cookie. A session is exclusively owned by the request that opened
// it; nothing here is safe for concurrent use and nothing needs to be.
type Session struct {
	values  map[string]any
	flashes []any
	dirty   bool
	isNew   bool
	saved   bool
}

// newSession returns an empty session.
func newSession() *Session {
	return &Session{
		values: make(map[string]any),
		isNew:  true,
	}
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value in the session and marks it dirty.
// The value's concrete type must be passed to Register before Save runs;
// violations surface from Save as ErrUnregisteredType.
func (s *Session) Set(key string, val any) {
	s.values[key] = val
	s.dirty = true
}

// Delete removes a value from the session.
// Marks the session dirty only if the key existed.
func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.dirty = true
	}
}

// AddFlash appends a one-shot message to the session's flash queue.
func (s *Session) AddFlash(v any) {
	s.flashes = append(s.flashes, v)
	s.dirty = true
}

// Flashes drains and returns all queued flash messages. A drained message is
// gone: it will not appear in this or any later request.
func (s *Session) Flashes() []any {
	if len(s.flashes) == 0 {
		return nil
	}
	out := s.flashes
	s.flashes = nil
	s.dirty = true
	return out
}

// Clear removes all values and flashes.
func (s *Session) Clear() {
	s.values = make(map[string]any)
	s.flashes = nil
	s.dirty = true
}

// IsNew reports whether the session was created fresh this request rather
// than decoded from a valid cookie.
func (s *Session) IsNew() bool {
	return s.isNew
}

// IsDirty reports whether the session has unsaved changes.
func (s *Session) IsDirty() bool {
	return s.dirty
}

// Value is a typed helper to retrieve session values.
// Returns ok=false if the key is absent or the type doesn't match.
func Value[T any](s *Session, key string) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// ValueOr returns the value for key or defaultVal if absent or mistyped.
func ValueOr[T any](s *Session, key string, defaultVal T) T {
	if v, ok := Value[T](s, key); ok {
		return v
	}
	return defaultVal
}
