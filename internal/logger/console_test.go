package logger

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/harrison/notebundle/internal/models"
)

func TestConsoleLoggerLevels(t *testing.T) {
	tests := []struct {
		name       string
		logLevel   string
		logFunc    func(*ConsoleLogger)
		wantOutput bool
	}{
		{"debug at debug level", "debug", func(l *ConsoleLogger) { l.LogDebug("msg") }, true},
		{"debug at info level filtered", "info", func(l *ConsoleLogger) { l.LogDebug("msg") }, false},
		{"info at info level", "info", func(l *ConsoleLogger) { l.LogInfo("msg") }, true},
		{"info at warn level filtered", "warn", func(l *ConsoleLogger) { l.LogInfo("msg") }, false},
		{"warn at warn level", "warn", func(l *ConsoleLogger) { l.LogWarn("msg") }, true},
		{"error always passes", "error", func(l *ConsoleLogger) { l.LogError("msg") }, true},
		{"invalid level defaults to info", "chatty", func(l *ConsoleLogger) { l.LogDebug("msg") }, false},
		{"empty level defaults to info", "", func(l *ConsoleLogger) { l.LogInfo("msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewConsoleLogger(&buf, tt.logLevel)
			tt.logFunc(logger)

			got := buf.Len() > 0
			if got != tt.wantOutput {
				t.Errorf("output present = %v, want %v (buffer: %q)", got, tt.wantOutput, buf.String())
			}
		})
	}
}

func TestConsoleLoggerTimestampFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "info")
	logger.LogInfo("hello")

	// Non-TTY writers get the plain format
	matched, err := regexp.MatchString(`^\[\d{2}:\d{2}:\d{2}\] \[INFO\] hello\n$`, buf.String())
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Errorf("unexpected format: %q", buf.String())
	}
}

func TestConsoleLoggerNilWriter(t *testing.T) {
	logger := NewConsoleLogger(nil, "debug")
	// Must not panic
	logger.LogDebug("msg")
	logger.LogInfo("msg")
	logger.LogCollectSummary(&models.CollectSummary{})
	logger.LogBundleSummary(&models.Bundle{}, "dir")
}

func TestLogFileDecision(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "debug")

	logger.LogFileDecision("collected", "api/setup.md", "proj-api-setup.md")
	if !strings.Contains(buf.String(), "collected api/setup.md -> proj-api-setup.md") {
		t.Errorf("unexpected decision line: %q", buf.String())
	}

	buf.Reset()
	logger.LogFileDecision("skipped", "api/setup.md", "")
	if !strings.Contains(buf.String(), "skipped api/setup.md") {
		t.Errorf("unexpected decision line: %q", buf.String())
	}
}

func TestLogCollectSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "info")

	logger.LogCollectSummary(&models.CollectSummary{
		Collected: []models.CollectedFile{{OutName: "proj-a.md", RelPath: "a.md"}},
		Skipped:   []string{"b.md"},
		Failed:    []models.FileFailure{{RelPath: "c.md", Err: errors.New("permission denied")}},
		OutputDir: "/out",
	})

	out := buf.String()
	for _, want := range []string{"Collected: 1", "Skipped: 1", "Failed: 1", "b.md", "c.md", "permission denied"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestLogBundleSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "info")

	logger.LogBundleSummary(&models.Bundle{
		Query:      "kubernetes",
		Days:       365,
		Considered: 30,
		Selected:   make([]models.ScoredCandidate, 25),
	}, "/bundles/20260823-103000__kubernetes")

	out := buf.String()
	for _, want := range []string{"Selected: 25 of 30", "kubernetes", "last 365 days"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
