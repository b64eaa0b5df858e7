// Package logger provides leveled console logging for notebundle runs.
//
// Output is prefixed with [HH:MM:SS] timestamps; per-file decisions stream
// at debug level (verbose mode) while run summaries print at info level.
// Implementations are thread-safe.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/harrison/notebundle/internal/models"
)

// Log level constants for filtering
const (
	levelDebug int = 0
	levelInfo  int = 1
	levelWarn  int = 2
	levelError int = 3
)

// ConsoleLogger logs run progress to a writer with timestamps and thread
// safety. It supports log level filtering to control message verbosity.
// Color output is automatically enabled for terminal output.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided
// io.Writer. If writer is nil, messages are silently discarded.
// Valid levels: debug, info, warn, error (case-insensitive); empty or
// invalid levels default to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
// Returns true for os.Stdout and os.Stderr when they are TTYs.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// The color library's detection also honors NO_COLOR
		return !color.NoColor
	}
	return false
}

// normalizeLogLevel lowercases and validates a level name, defaulting to
// "info" for anything unknown.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

func logLevelToInt(level string) int {
	switch level {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogDebug logs a debug-level message (per-file decision stream).
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warn-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// LogFileDecision streams a single per-file decision at debug level.
// Format: "[HH:MM:SS] [DEBUG] collected api/setup.md -> proj-api-setup.md"
func (cl *ConsoleLogger) LogFileDecision(action, relPath, detail string) {
	msg := fmt.Sprintf("%s %s", action, relPath)
	if detail != "" {
		msg += " -> " + detail
	}
	cl.LogDebug(msg)
}

// logWithLevel logs a message at the specified level if filtering allows it.
func (cl *ConsoleLogger) logWithLevel(level, message string) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorizeLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

// colorizeLevel applies the standard level color scheme.
func colorizeLevel(level string) string {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogCollectSummary prints the end-of-run report for a collection run at
// info level: counts first, then skipped and failed detail lines.
func (cl *ConsoleLogger) LogCollectSummary(summary *models.CollectSummary) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	fmt.Fprintf(cl.writer, "\nCollection Summary:\n")
	fmt.Fprintf(cl.writer, "  Collected: %d\n", len(summary.Collected))
	fmt.Fprintf(cl.writer, "  Skipped: %d\n", len(summary.Skipped))
	fmt.Fprintf(cl.writer, "  Failed: %d\n", len(summary.Failed))
	fmt.Fprintf(cl.writer, "  Output: %s\n", summary.OutputDir)

	if len(summary.Skipped) > 0 {
		fmt.Fprintf(cl.writer, "\nSkipped (already present, use --overwrite to replace):\n")
		for _, rel := range summary.Skipped {
			fmt.Fprintf(cl.writer, "  - %s\n", rel)
		}
	}

	if len(summary.Failed) > 0 {
		fmt.Fprintf(cl.writer, "\nFailed:\n")
		for _, f := range summary.Failed {
			if cl.colorOutput {
				fmt.Fprintf(cl.writer, "  - %s: %s\n", f.RelPath, color.New(color.FgRed).Sprint(f.Err))
			} else {
				fmt.Fprintf(cl.writer, "  - %s: %v\n", f.RelPath, f.Err)
			}
		}
	}
}

// LogBundleSummary prints the end-of-run report for a bundling run at info
// level. Format: selected/considered counts plus the bundle directory.
func (cl *ConsoleLogger) LogBundleSummary(bundle *models.Bundle, bundleDir string) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	fmt.Fprintf(cl.writer, "\nBundle Summary:\n")
	fmt.Fprintf(cl.writer, "  Selected: %d of %d candidate(s)\n", len(bundle.Selected), bundle.Considered)
	if bundle.Query != "" {
		fmt.Fprintf(cl.writer, "  Query: %q (regex: %v)\n", bundle.Query, bundle.Regex)
	} else {
		fmt.Fprintf(cl.writer, "  Query: (none, recency only)\n")
	}
	fmt.Fprintf(cl.writer, "  Window: last %d days\n", bundle.Days)
	fmt.Fprintf(cl.writer, "  Bundle: %s\n", bundleDir)
}

// timestamp returns the current time formatted as HH:MM:SS.
func timestamp() string {
	return time.Now().Format("15:04:05")
}
