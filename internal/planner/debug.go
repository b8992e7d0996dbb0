package planner

import "sync/atomic"

// debugLoggingEnabled is read on every Plan call; slog.Debug arguments for
// routes and unreachable goals are only built while it is set.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging toggles the per-route debug lines Plan emits.
// pathplan sets it from log_level in planner.yaml.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled reports whether route debug lines are on. Callers that
// log per tile or per waypoint should check it first.
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
