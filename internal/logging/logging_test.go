// ABOUTME: Tests for logger setup
// ABOUTME: Verifies level parsing, formatter selection and output filtering
package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{" warn ", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"verbose", log.InfoLevel},
		{"", log.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"yaml", log.TextFormatter},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSetupFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	defer log.SetDefault(log.New(&bytes.Buffer{}))

	logger := Setup("warn", "json", &buf)
	logger.Info("Load audio clip", "path", "a.wav")
	logger.Warn("Unloading clip left loaded at shutdown")

	out := buf.String()
	if strings.Contains(out, "Load audio clip") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"Unloading clip left loaded at shutdown"`) {
		t.Errorf("expected warn message in json output, got %s", out)
	}

	if log.Default() != logger {
		t.Error("expected Setup to install the default logger")
	}
}
