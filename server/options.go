package server

import (
	"log/slog"

	"github.com/swaplane/swaplane/server/config"
)

type Option func(s *Server)

// WithLogger specifies the logger for the server
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithConfig specifies the config for the server
func WithConfig(c *config.Config) Option {
	return func(s *Server) {
		s.config = c
	}
}

// WithTracker specifies the exchange tracker for the server
func WithTracker(t Registrar) Option {
	return func(s *Server) {
		s.tracker = t
	}
}

// WithIdentityResolver specifies the identity resolver for the server
func WithIdentityResolver(r IdentityResolver) Option {
	return func(s *Server) {
		s.identity = r
	}
}
