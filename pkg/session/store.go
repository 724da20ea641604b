package session

import (
	"bytes"
	"encoding/gob"
	"errors"
	"net/http"
	"strings"

	"github.com/hearthstack/hearth/pkg/cookie"
)

// Default store configuration.
const (
	defaultCookieName = "__session"
	defaultMaxAge     = 86400 * 30 // 30 days
)

// payload is the gob wire form of a session.
type payload struct {
	Values  map[string]any
	Flashes []any
}

// Register records a concrete type with the serialization layer. Every type
// stored as a session value or flash must be registered before the first
// Save; basic types (string, int, bool, ...) work out of the box.
func Register(v any) {
	gob.Register(v)
}

// Store encodes sessions into a single client-held cookie and decodes them
// back. Payloads are gob-encoded and HMAC-signed; encryption is optional on
// top. The Store itself is immutable and safe for concurrent use; each
// Session it produces belongs to one request.
type Store struct {
	cookies *cookie.Manager
	name    string
	maxAge  int
	encrypt bool
}

// StoreOption configures the Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	secret   string
	name     string
	domain   string
	path     string
	maxAge   int
	secure   bool
	httpOnly bool
	sameSite http.SameSite
	encrypt  bool
}

// WithSecret sets the signing/encryption secret. Required, 32+ bytes.
func WithSecret(secret string) StoreOption {
	return func(c *storeConfig) { c.secret = secret }
}

// WithCookieName sets the transport cookie name. Defaults to "__session".
func WithCookieName(name string) StoreOption {
	return func(c *storeConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithMaxAge sets the cookie max age in seconds. Defaults to 30 days.
func WithMaxAge(seconds int) StoreOption {
	return func(c *storeConfig) {
		if seconds > 0 {
			c.maxAge = seconds
		}
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) StoreOption {
	return func(c *storeConfig) { c.domain = domain }
}

// WithPath sets the cookie path. Defaults to "/".
func WithPath(path string) StoreOption {
	return func(c *storeConfig) {
		if path != "" {
			c.path = path
		}
	}
}

// WithSecure sets the cookie Secure flag.
func WithSecure(secure bool) StoreOption {
	return func(c *storeConfig) { c.secure = secure }
}

// WithSameSite sets the cookie SameSite attribute. Defaults to Lax.
func WithSameSite(ss http.SameSite) StoreOption {
	return func(c *storeConfig) { c.sameSite = ss }
}

// WithEncryption seals the payload with AES-256-GCM instead of carrying it
// signed-but-readable. Tamper detection is equivalent either way.
func WithEncryption() StoreOption {
	return func(c *storeConfig) { c.encrypt = true }
}

// NewStore creates a cookie-backed session store.
// Returns cookie.ErrBadSecret unless a 32+ byte secret is supplied.
func NewStore(opts ...StoreOption) (*Store, error) {
	cfg := &storeConfig{
		name:     defaultCookieName,
		maxAge:   defaultMaxAge,
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.secret) < 32 {
		return nil, cookie.ErrBadSecret
	}

	return &Store{
		cookies: cookie.New(
			cookie.WithSecret(cfg.secret),
			cookie.WithDomain(cfg.domain),
			cookie.WithPath(cfg.path),
			cookie.WithSecure(cfg.secure),
			cookie.WithHTTPOnly(cfg.httpOnly),
			cookie.WithSameSite(cfg.sameSite),
		),
		name:    cfg.name,
		maxAge:  cfg.maxAge,
		encrypt: cfg.encrypt,
	}, nil
}

// CookieName returns the transport cookie name.
func (st *Store) CookieName() string {
	return st.name
}

// Open decodes and verifies the session cookie on r.
//
// A missing cookie yields a fresh empty session and no error. A cookie that
// fails verification (bad signature, failed decryption, or a gob payload
// that won't decode) yields a fresh empty session AND ErrTampered: the caller
// should log it and continue with the fresh session, never with partially
// decoded data.
func (st *Store) Open(r *http.Request) (*Session, error) {
	raw, err := st.read(r)
	if err != nil {
		if errors.Is(err, cookie.ErrNotFound) {
			return newSession(), nil
		}
		return newSession(), errors.Join(ErrTampered, err)
	}

	var p payload
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&p); err != nil {
		return newSession(), errors.Join(ErrTampered, err)
	}

	s := &Session{
		values:  p.Values,
		flashes: p.Flashes,
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	return s, nil
}

// Save serializes the session into a Set-Cookie header on w. Must be called
// exactly once per request, before any body bytes reach the real transport;
// the buffering dispatcher guarantees the ordering, this method guards the
// count with ErrAlreadySaved.
func (st *Store) Save(s *Session, w http.ResponseWriter) error {
	if s.saved {
		return ErrAlreadySaved
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(payload{
		Values:  s.values,
		Flashes: s.flashes,
	}); err != nil {
		if isTypeError(err) {
			return errors.Join(ErrUnregisteredType, err)
		}
		return err
	}

	if err := st.write(w, buf.Bytes()); err != nil {
		return err
	}

	s.saved = true
	s.dirty = false
	return nil
}

// Destroy expires the session cookie on w.
func (st *Store) Destroy(w http.ResponseWriter) {
	st.cookies.Delete(w, st.name)
}

func (st *Store) read(r *http.Request) ([]byte, error) {
	if st.encrypt {
		return st.cookies.GetEncrypted(r, st.name)
	}
	return st.cookies.GetSigned(r, st.name)
}

func (st *Store) write(w http.ResponseWriter, data []byte) error {
	if st.encrypt {
		return st.cookies.SetEncrypted(w, st.name, data, st.maxAge)
	}
	return st.cookies.SetSigned(w, st.name, data, st.maxAge)
}

// isTypeError reports whether a gob encode failure is a type-registration
// problem rather than an I/O problem. gob exposes no sentinel for this, so
// match its message.
func isTypeError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "type not registered") ||
		strings.Contains(msg, "can't handle type") ||
		strings.Contains(msg, "unsupported type")
}
