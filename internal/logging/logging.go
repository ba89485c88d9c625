// Package logging builds the session's debug logger.
//
// The operator's terminal is the user interface, so nothing is logged there.
// Records go to a file only when one is configured (--log-file or
// IDIFF_LOG_FILE); otherwise they are discarded.
package logging

import (
	"fmt"
	"log/slog"
	"os"
)

// EnvFile names the environment variable that sets the log file.
const EnvFile = "IDIFF_LOG_FILE"

// New returns a logger appending to path at debug level and a function that
// closes the file. An empty path yields a discarding logger.
func New(path string) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), f.Close, nil
}
