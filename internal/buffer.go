package internal

import (
	"bytes"
	"net/http"
)

// ResponseBuffer is an http.ResponseWriter that holds the entire response in
// memory until Apply. Handlers write into it freely; nothing reaches the
// client until the dispatcher has finished the whole request, so late
// decisions (session cookie, error override) can still change headers or
// replace the body.
type ResponseBuffer struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
	applied     bool
}

// NewResponseBuffer creates an empty buffer.
func NewResponseBuffer() *ResponseBuffer {
	return &ResponseBuffer{header: make(http.Header)}
}

// Header returns the buffered header map. Mutations are visible until Apply.
func (b *ResponseBuffer) Header() http.Header {
	return b.header
}

// WriteHeader records the status code. The first call wins, matching
// net/http semantics.
func (b *ResponseBuffer) WriteHeader(code int) {
	if b.wroteHeader {
		return
	}
	b.wroteHeader = true
	b.status = code
}

// Write appends to the buffered body. An implicit 200 is recorded if no
// status was set, matching net/http semantics.
func (b *ResponseBuffer) Write(p []byte) (int, error) {
	if !b.wroteHeader {
		b.WriteHeader(http.StatusOK)
	}
	return b.body.Write(p)
}

// Status returns the buffered status code, or 0 if none was written.
func (b *ResponseBuffer) Status() int {
	return b.status
}

// Size returns the buffered body length.
func (b *ResponseBuffer) Size() int {
	return b.body.Len()
}

// Written reports whether a status or any body bytes were recorded.
func (b *ResponseBuffer) Written() bool {
	return b.wroteHeader || b.body.Len() > 0
}

// Body returns the buffered body bytes. Test and error-handler use.
func (b *ResponseBuffer) Body() []byte {
	return b.body.Bytes()
}

// Reset discards the buffered status and body so the response can be
// rewritten. Headers survive: cookies set before the reset (session save,
// flash) must not be lost when an error overrides the body.
func (b *ResponseBuffer) Reset() {
	b.body.Reset()
	b.status = 0
	b.wroteHeader = false
}

// Apply flushes the buffered response to w exactly once. Later calls are
// no-ops. A buffer that never saw a status flushes as 200 with an empty body.
func (b *ResponseBuffer) Apply(w http.ResponseWriter) {
	if b.applied {
		return
	}
	b.applied = true

	dst := w.Header()
	for k, vals := range b.header {
		dst[k] = vals
	}

	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(b.body.Bytes())
}

// Applied reports whether the buffer has been flushed.
func (b *ResponseBuffer) Applied() bool {
	return b.applied
}
