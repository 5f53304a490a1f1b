// Package logging holds the library-wide slog logger shared by textcore
// packages.
package logging

import "log/slog"

var base = slog.Default()

// Set replaces the base logger for all textcore packages.
func Set(l *slog.Logger) {
	if l != nil {
		base = l
	}
}

// Group returns a logger scoped to the named package group. Call it at the
// log site rather than caching the result, so a later Set takes effect.
func Group(name string) *slog.Logger {
	return base.WithGroup(name)
}
