package session

import "errors"

// Session errors.
var (
	// ErrNotConfigured is returned when session functionality is used
	// but no Store was configured on the app.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrTampered is returned by Open when the cookie is present but its
	// integrity check fails. The returned session is fresh and empty;
	// partially-valid data is never surfaced.
	ErrTampered = errors.New("session: tampered cookie")

	// ErrUnregisteredType is returned by Save when a payload value's type
	// was never passed to Register. Deliberately detected at save time,
	// not at Set time, because only serialization knows the full closure
	// of types involved.
	ErrUnregisteredType = errors.New("session: unregistered value type")

	// ErrAlreadySaved is returned when Save is called more than once for
	// the same session within a request.
	ErrAlreadySaved = errors.New("session: already saved")
)
