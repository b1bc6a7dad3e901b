package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/grammarforge/submodsync/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	// Capture output through a replaced default logger
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	logging.SetDefault(logger)

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")
	logging.Error().Msg("error message")

	output := buf.String()
	if !strings.Contains(output, "info message") {
		t.Errorf("Expected info message in output, got: %s", output)
	}
	if !strings.Contains(output, "debug message") {
		t.Errorf("Expected debug message in output, got: %s", output)
	}
}

func TestTestLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	testLogger.Info().Str("path", "grammars/rust").Msg("reconciling")

	if !testLogger.Contains("grammars/rust") {
		t.Errorf("Expected path field in output, got: %s", testLogger.Output())
	}
	if got := len(testLogger.Lines()); got != 1 {
		t.Errorf("Expected 1 log line, got %d", got)
	}
}

func TestParseLevelFallback(t *testing.T) {
	// An unknown level string falls back to info rather than failing
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "nonsense",
		Format: "json",
		Output: "discard",
	})

	if logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level fallback, got %s", logger.GetLevel())
	}
}
