// Package internal contains the core of the hearth framework: the App, the
// per-request Context, the buffered response dispatcher, and the chi-backed
// router with named-route reversal.
//
// Every request runs the same sequence: build a context (check out a
// database connection, open the session), run the handler against an
// in-memory response buffer, render any returned error into that buffer,
// save the session into the buffered headers, and only then flush the buffer
// to the network. The buffer is what makes the ordering guarantees cheap: a
// render failure never leaks partial output, and the session cookie always
// rides the response it belongs to.
//
// The public surface is re-exported by the root hearth package.
package internal
