package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func decodeLine(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(b), &m); err != nil {
		t.Fatalf("decode log line %q: %v", b, err)
	}
	return m
}

func TestCriticalDoesNotExitAndCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "info").With(String("comp", "test"))

	log.Critical("credentials missing", Strs("missing", []string{"TELEGRAM_TOKEN"}), Err(errors.New("boom")))

	m := decodeLine(t, buf.Bytes())
	if m["level"] != "fatal" {
		t.Fatalf("level = %v, want fatal", m["level"])
	}
	if m["comp"] != "test" {
		t.Fatalf("comp = %v, want test", m["comp"])
	}
	if m["message"] != "credentials missing" {
		t.Fatalf("message = %v", m["message"])
	}
	if m["caller"] == nil {
		t.Fatal("expected caller field")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "warn")
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	if log.Enabled(LevelInfo) {
		t.Fatal("info should not be enabled")
	}
	if !log.Enabled(LevelCritical) {
		t.Fatal("critical should be enabled")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]Level{
		"debug":    LevelDebug,
		" INFO ":   LevelInfo,
		"warning":  LevelWarn,
		"critical": LevelCritical,
		"bogus":    LevelError,
	}
	for in, want := range cases {
		if got := ParseLevel(in, LevelError); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestZeroLoggerIsNoop(t *testing.T) {
	var log Logger
	if !log.IsZero() {
		t.Fatal("zero logger should report IsZero")
	}
	log.Info("nothing happens")
}
