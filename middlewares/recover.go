package middlewares

import (
	"runtime"

	"github.com/hearthstack/hearth/internal"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize         int  // max stack trace size (default 4096)
	DisablePrintStack bool // omit stack traces from logs
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack disables stack traces in logs.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover returns middleware that turns panics into a PanicError for the
// app's error handler. The panic is logged with a stack trace; since the
// error follows the normal error path, the buffered response written before
// the panic is discarded and replaced.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{StackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				perr := &PanicError{Value: r}
				attrs := []any{"panic", r}
				if !cfg.DisablePrintStack {
					buf := make([]byte, cfg.StackSize)
					perr.Stack = buf[:runtime.Stack(buf, false)]
					attrs = append(attrs, "stack", string(perr.Stack))
				}

				c.LogError("panic recovered", attrs...)
				err = perr
			}()

			return next(c)
		}
	}
}
