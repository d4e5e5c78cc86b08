package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.WarnLevel},
		{"", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if tt.in == "bogus" || tt.in == "" {
			if ValidLevel(tt.in) {
				t.Errorf("ValidLevel(%q) = true", tt.in)
			}
		} else if !ValidLevel(tt.in) {
			t.Errorf("ValidLevel(%q) = false", tt.in)
		}
	}
}

func TestJSONLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger
	defer func() {
		Logger = prev
		initComponentLoggers()
	}()

	Logger = NewJSONLogger(&buf, "info")
	initComponentLoggers()
	Keystore.Info().Str("name", "k").Msg("stored")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Unmarshal() error: %v (%s)", err, buf.String())
	}
	if entry["component"] != "keystore" {
		t.Errorf("component = %v, want keystore", entry["component"])
	}
	if entry["message"] != "stored" {
		t.Errorf("message = %v, want stored", entry["message"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, "warn")
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn message missing")
	}
}

func TestInit_File(t *testing.T) {
	var console bytes.Buffer
	prevOut, prevLogger := Output, Logger
	defer func() {
		Output, Logger = prevOut, prevLogger
		initComponentLoggers()
	}()

	Output = &console
	path := filepath.Join(t.TempDir(), "l2m.log")
	if err := Init("info", false, path); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	Wallet.Info().Msg("derived")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), `"component":"wallet"`) {
		t.Errorf("file log missing component: %s", data)
	}
	if !strings.Contains(console.String(), "derived") {
		t.Errorf("console log missing message: %s", console.String())
	}
	if strings.Contains(console.String(), "\x1b[") {
		t.Error("console output to a buffer should not be colored")
	}
}
