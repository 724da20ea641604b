// Package cookie provides HTTP cookie management with optional signing and
// encryption for client-held payloads.
//
// The Manager handles plain string cookies plus two byte-payload codecs:
// HMAC-SHA256 signing (tamper-evident, readable by the client) and
// AES-256-GCM encryption (tamper-evident and opaque). The session package
// builds its cookie-backed store on these primitives.
//
// Secrets are optional; signed and encrypted operations return [ErrNoSecret]
// without one. Plain cookies always work:
//
//	m := cookie.New()
//	m.Set(w, "theme", "dark", 86400)
//	value, err := m.Get(r, "theme")
//
// Enable the codecs with a 32+ byte secret:
//
//	m := cookie.New(
//		cookie.WithSecret("your-32+-byte-secret-key-here!!!"),
//		cookie.WithSecure(true),
//	)
//
//	err := m.SetSigned(w, "prefs", payload, 86400)
//	payload, err := m.GetSigned(r, "prefs")
//
// Signed cookies use the wire format base64(payload).base64(tag). Encrypted
// cookies carry base64(nonce||ciphertext); GCM authenticates the ciphertext,
// so a flipped byte surfaces as [ErrDecrypt], never as garbage plaintext.
package cookie
