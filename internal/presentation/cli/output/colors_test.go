package output

import (
	"os"
	"testing"

	"github.com/jbctechsolutions/doc2code/internal/infrastructure/logging"
)

func TestIsColorSupported(t *testing.T) {
	tests := []struct {
		name       string
		noColor    bool
		forceColor bool
		term       string
		want       bool
	}{
		{name: "NO_COLOR set", noColor: true, forceColor: true, term: "xterm-256color", want: false},
		{name: "FORCE_COLOR overrides", forceColor: true, want: true},
		{name: "TERM dumb", term: "dumb", want: false},
		{name: "TERM empty", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(ResetColorDetection)
			ResetColorDetection()

			t.Setenv("TERM", tt.term)
			t.Setenv("NO_COLOR", "")
			t.Setenv("FORCE_COLOR", "")
			unsetenv(t, "NO_COLOR", !tt.noColor)
			unsetenv(t, "FORCE_COLOR", !tt.forceColor)

			if got := IsColorSupported(); got != tt.want {
				t.Errorf("IsColorSupported() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResetColorDetection(t *testing.T) {
	t.Cleanup(ResetColorDetection)
	t.Setenv("NO_COLOR", "")
	unsetenv(t, "NO_COLOR", true)
	t.Setenv("FORCE_COLOR", "1")

	ResetColorDetection()
	if !IsColorSupported() {
		t.Fatal("IsColorSupported() = false, want true after FORCE_COLOR=1")
	}

	t.Setenv("NO_COLOR", "1")
	if !IsColorSupported() {
		t.Error("expected cached result before reset")
	}

	ResetColorDetection()
	if IsColorSupported() {
		t.Error("IsColorSupported() = true, want false after NO_COLOR=1 and reset")
	}
}

func TestLevelColor(t *testing.T) {
	tests := map[logging.Level]Color{
		logging.LevelError: ColorRed,
		logging.LevelWarn:  ColorYellow,
		logging.LevelInfo:  ColorBlue,
		logging.LevelDebug: ColorDim,
		"":                 "",
	}
	for level, want := range tests {
		if got := LevelColor(level); got != want {
			t.Errorf("LevelColor(%q) = %q, want %q", level, got, want)
		}
	}
}

func TestFormatter_LogLine(t *testing.T) {
	f := NewFormatter(WithColor(true))

	line := `time=2026-01-02T10:00:00Z level=ERROR msg="Generation failed"`
	if got := f.LogLine(line); got != string(ColorRed)+line+string(ColorReset) {
		t.Errorf("LogLine() = %q", got)
	}

	plain := "panic: boom"
	if got := f.LogLine(plain); got != plain {
		t.Errorf("unleveled line should be unchanged, got %q", got)
	}

	if got := NewFormatter(WithColor(false)).LogLine(line); got != line {
		t.Errorf("colorless formatter should not color, got %q", got)
	}
}

// unsetenv removes key for the rest of the test when unset is true. t.Setenv
// must be called first so the original value is restored on cleanup.
func unsetenv(t *testing.T, key string, unset bool) {
	t.Helper()
	if !unset {
		return
	}
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}
