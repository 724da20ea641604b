package logger

import (
	"io"
	"log/slog"
	"os"
)

// Option adjusts logger construction.
type Option func(*settings)

type settings struct {
	level  slog.Level
	out    io.Writer
	text   bool
	extras []ContextExtractor
}

// WithLevel sets the minimum level (default slog.LevelInfo).
func WithLevel(level slog.Level) Option {
	return func(s *settings) { s.level = level }
}

// WithOutput redirects log output (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(s *settings) { s.out = w }
}

// WithTextFormat switches from JSON to human-readable text output.
func WithTextFormat() Option {
	return func(s *settings) { s.text = true }
}

// WithExtractors registers context extractors applied on every log call.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(s *settings) { s.extras = append(s.extras, extractors...) }
}

// New creates a structured logger. JSON to stdout at Info level unless
// options say otherwise.
func New(opts ...Option) *slog.Logger {
	s := settings{level: slog.LevelInfo, out: os.Stdout}
	for _, opt := range opts {
		opt(&s)
	}
	return slog.New(NewExtractorHandler(s.handler(), s.extras...))
}

func (s *settings) handler() slog.Handler {
	ho := &slog.HandlerOptions{Level: s.level}
	if s.text {
		return slog.NewTextHandler(s.out, ho)
	}
	return slog.NewJSONHandler(s.out, ho)
}
