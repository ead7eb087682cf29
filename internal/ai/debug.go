package ai

import "sync/atomic"

// debugLoggingEnabled gates per-tick debug logs of the decision loop.
// Checked on every tick, so it is a plain atomic instead of a level lookup.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging turns per-tick AI debug logs on or off.
// Called from main after the log level is known.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled reports whether per-tick AI debug logs are on.
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("state changed", "agent", id, "to", state)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
