// Package health provides liveness and readiness HTTP handlers.
//
// Liveness proves the process is running; readiness runs named dependency
// checks (database ping, etc.) concurrently under a shared timeout and
// answers 503 when any fail. Both handlers answer plain text by default and
// JSON when the client asks for it.
package health
