// Package trace logs jj command executions to a file for debugging.
// Tracing is disabled unless JJNAV_LOG_FILE points at a writable path;
// JJNAV_LOG_LEVEL controls verbosity (debug, info, warn, error).
package trace

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	logger     *log.Logger
	loggerOnce sync.Once
	logEnabled bool
)

func init() {
	logPath := os.Getenv("JJNAV_LOG_FILE")
	if logPath == "" {
		return // Tracing disabled by default
	}

	level := log.InfoLevel
	switch strings.ToLower(os.Getenv("JJNAV_LOG_LEVEL")) {
	case "debug":
		level = log.DebugLevel
	case "warn", "warning":
		level = log.WarnLevel
	case "error":
		level = log.ErrorLevel
	}

	if err := Init(logPath, level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize command trace: %v\n", err)
	}
}

// Init initializes the trace logger to write to the specified file.
// If logPath is empty, tracing stays disabled.
func Init(logPath string, level log.Level) error {
	var initErr error
	loggerOnce.Do(func() {
		if logPath == "" {
			logEnabled = false
			return
		}

		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			initErr = err
			return
		}

		logger = log.NewWithOptions(f, log.Options{
			Level:           level,
			Prefix:          "jj",
			ReportTimestamp: true,
		})
		logEnabled = true
	})
	return initErr
}

// SetLogger allows injecting a custom logger (useful for testing).
func SetLogger(l *log.Logger) {
	logger = l
	logEnabled = l != nil
}

// Command records a jj invocation. The returned function must be called when
// the command completes, with its error (or nil).
//
// Usage:
//
//	done := trace.Command(args)
//	defer done(err)
func Command(args []string) func(error) {
	if !logEnabled || logger == nil {
		return func(error) {}
	}

	start := time.Now()
	argv := truncate(strings.Join(args, " "), 200)
	return func(err error) {
		duration := time.Since(start)
		if err != nil {
			logger.Error("command failed", "args", argv, "duration", duration.String(), "error", err.Error())
		} else {
			logger.Info("command complete", "args", argv, "duration", duration.String())
		}
	}
}

// truncate shortens a string to maxLen characters for safe logging.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
