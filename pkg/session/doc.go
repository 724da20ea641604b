// Package session implements a cookie-backed session store: the entire
// payload travels in a single client-held cookie rather than a server-side
// table keyed by an ID.
//
// Payloads are gob-encoded, HMAC-SHA256 signed, and optionally AES-256-GCM
// encrypted via the cookie package. Tampering is detected on open and the
// request proceeds with a fresh empty session; tampered data never reaches
// handler code.
//
// # Usage
//
//	store, err := session.NewStore(
//		session.WithSecret(os.Getenv("SESSION_SECRET")),
//		session.WithCookieName("guestbook"),
//	)
//
//	sess, err := store.Open(r)       // fresh session when cookie is absent
//	sess.Set("user_id", id)
//	sess.AddFlash("Welcome back!")
//	err = store.Save(sess, w)        // exactly once, before the body flushes
//
// # Flash messages
//
// AddFlash queues a one-shot message; Flashes drains the queue. A message
// added in request N is returned exactly once by Flashes in request N+1 and
// is absent afterwards.
//
// # Type registration
//
// Values are serialized with encoding/gob. Custom concrete types must be
// registered up front:
//
//	session.Register(UserRef{})
//
// Storing an unregistered type is only detectable when the payload is
// serialized, so it surfaces from Save as ErrUnregisteredType, not from Set.
package session
