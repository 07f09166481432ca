package logging

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestListLogFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2024-01-01.log", "2024-03-15.log", "2023-12-31.log", "notes.txt"} {
		os.WriteFile(filepath.Join(dir, name), nil, 0o644)
	}
	os.Mkdir(filepath.Join(dir, "archive.log"), 0o755)

	files, err := ListLogFiles(dir)
	if err != nil {
		t.Fatalf("ListLogFiles() error = %v", err)
	}

	want := []string{"2024-03-15.log", "2024-01-01.log", "2023-12-31.log"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("ListLogFiles() = %v, want %v", files, want)
	}
}

func TestListLogFiles_MissingDir(t *testing.T) {
	if _, err := ListLogFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestReadLogFile_RejectsPaths(t *testing.T) {
	if _, err := ReadLogFile(t.TempDir(), "../etc/passwd"); err == nil {
		t.Error("expected error for path traversal")
	}
}

func TestLineLevel(t *testing.T) {
	tests := []struct {
		line string
		want Level
	}{
		{`time=2024-01-01T00:00:00Z level=INFO msg="generation started"`, LevelInfo},
		{`time=2024-01-01T00:00:00Z level=ERROR msg="generation failed"`, LevelError},
		{`{"time":"2024-01-01T00:00:00Z","level":"WARN","msg":"rate limit exceeded"}`, LevelWarn},
		{`{"level":"DEBUG","msg":"provider request"}`, LevelDebug},
		{`plain line`, ""},
	}
	for _, tt := range tests {
		if got := LineLevel(tt.line); got != tt.want {
			t.Errorf("LineLevel(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestFilterLines(t *testing.T) {
	lines := []string{
		`level=INFO msg="generation started" provider=groq`,
		`level=ERROR msg="generation failed" provider=openai`,
		`level=INFO msg="chunk generation completed" provider=groq`,
		`level=WARN msg="rate limit exceeded"`,
		`level=INFO msg="generation completed" provider=GROQ`,
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, lines},
		{"level", Filter{Level: LevelError}, []string{lines[1]}},
		{"search is case insensitive", Filter{Search: "groq"}, []string{lines[0], lines[2], lines[4]}},
		{"level and search", Filter{Level: LevelInfo, Search: "chunk"}, []string{lines[2]}},
		{"tail after filtering", Filter{Level: LevelInfo, Tail: 2}, []string{lines[2], lines[4]}},
		{"tail larger than matches", Filter{Tail: 50}, lines},
		{"no matches", Filter{Search: "anthropic"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterLines(lines, tt.filter)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterLines() = %v, want %v", got, tt.want)
			}
		})
	}
}
