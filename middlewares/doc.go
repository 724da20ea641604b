// Package middlewares provides cross-cutting request middleware for hearth
// apps: panic recovery, request IDs, and request logging.
//
// Middleware runs against the same buffered Context as the handler, so a
// recovered panic or logged error never races the response: nothing has
// reached the client yet.
package middlewares
