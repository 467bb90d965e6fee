// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"fmt"
	"log/slog"
	"strings"
)

// LevelTrace is below slog.LevelDebug. Frame-level traffic logged with
// Options.EnableLogging is visible from LevelDebug on.
const LevelTrace = slog.LevelDebug - 4

// ParseLogLevel maps a level name to a slog level. Accepted names are
// trace, debug, info, warn (or warning) and error, in any case.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("nvimrpc: unknown log level %q", name)
}
