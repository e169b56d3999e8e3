package engine

import "log/slog"

type Option func(e *Engine)

// WithLogger specifies the logger for the engine
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithGate specifies the verification gate for the engine.
// Defaults to the production pair set
func WithGate(g *Gate) Option {
	return func(e *Engine) {
		e.gate = g
	}
}
