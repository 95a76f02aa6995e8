package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(true, &buf)

	logger.Debug().Msg("debug message")
	output := buf.String()
	buf.Reset()

	if !strings.Contains(output, "debug message") {
		t.Errorf("Debug log should contain 'debug message', got: %s", output)
	}
	if !strings.Contains(output, `"level":"debug"`) {
		t.Errorf("Debug log should have debug level, got: %s", output)
	}

	logger.Warn().Msg("warn message")
	output = buf.String()
	buf.Reset()

	if !strings.Contains(output, `"level":"warn"`) {
		t.Errorf("Warn log should have warn level, got: %s", output)
	}
}

func TestDebugDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(false, &buf)

	logger.Debug().Msg("debug message")
	output := buf.String()
	buf.Reset()

	if strings.Contains(output, "debug message") {
		t.Errorf("Debug log should not be visible when debug is disabled, got: %s", output)
	}

	logger.Info().Msg("info message")
	output = buf.String()

	if !strings.Contains(output, "info message") {
		t.Errorf("Info log should be visible when debug is disabled, got: %s", output)
	}
}

func TestHelperFunctionsWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalLogger(NewLogger(true, &buf))

	WarnWith("no handler found for path", map[string]interface{}{
		"path":  "/missing",
		"count": 3,
	})

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log output as JSON: %v", err)
	}

	if path, ok := logEntry["path"].(string); !ok || path != "/missing" {
		t.Errorf("Expected path field '/missing', got: %v", logEntry["path"])
	}
	if count, ok := logEntry["count"].(float64); !ok || int(count) != 3 {
		t.Errorf("Expected count field 3, got: %v", logEntry["count"])
	}
	if msg, ok := logEntry["message"].(string); !ok || msg != "no handler found for path" {
		t.Errorf("Expected message 'no handler found for path', got: %v", logEntry["message"])
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalLogger(NewLogger(true, &buf))

	logger := WithComponent("pool")
	logger.Info().Msg("component log")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log output as JSON: %v", err)
	}

	if component, ok := logEntry["component"].(string); !ok || component != "pool" {
		t.Errorf("Expected component field 'pool', got: %v", logEntry["component"])
	}
}
