package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func TestNewFormatter(t *testing.T) {
	t.Run("default options", func(t *testing.T) {
		f := NewFormatter()
		if f.Format() != FormatText {
			t.Errorf("expected format %v, got %v", FormatText, f.Format())
		}
		if !f.ColorEnabled() {
			t.Error("expected color to be enabled by default")
		}
	})

	t.Run("with custom options", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewFormatter(
			WithWriter(&buf),
			WithFormat(FormatJSON),
			WithColor(false),
			WithIndent("    "),
		)

		if f.Format() != FormatJSON {
			t.Errorf("expected format %v, got %v", FormatJSON, f.Format())
		}
		if f.ColorEnabled() {
			t.Error("expected color to be disabled")
		}
		if f.indent != "    " {
			t.Errorf("expected indent '    ', got %q", f.indent)
		}
		if f.Writer() != &buf {
			t.Error("expected custom writer")
		}
	})
}

func TestFormatter_Println(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf))

	if err := f.Println("hello %s", "world"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Print("!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := buf.String(); got != "hello world\n!" {
		t.Errorf("got %q", got)
	}
}

func TestFormatter_Colorize(t *testing.T) {
	t.Run("with color enabled", func(t *testing.T) {
		f := NewFormatter(WithColor(true))
		result := f.Colorize("test", ColorRed)

		if result != string(ColorRed)+"test"+string(ColorReset) {
			t.Errorf("unexpected colorized text %q", result)
		}
	})

	t.Run("with color disabled", func(t *testing.T) {
		f := NewFormatter(WithColor(false))
		if result := f.Colorize("test", ColorRed); result != "test" {
			t.Errorf("expected 'test', got %q", result)
		}
	})

	t.Run("empty color", func(t *testing.T) {
		f := NewFormatter(WithColor(true))
		if result := f.Colorize("test", ""); result != "test" {
			t.Errorf("expected 'test', got %q", result)
		}
	})
}

func TestFormatter_MessageTypes(t *testing.T) {
	tests := []struct {
		name   string
		method func(*Formatter, string, ...any) error
		prefix string
	}{
		{"Success", (*Formatter).Success, "✓"},
		{"Error", (*Formatter).Error, "✗"},
		{"Warning", (*Formatter).Warning, "⚠"},
		{"Info", (*Formatter).Info, "ℹ"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewFormatter(WithWriter(&buf), WithColor(false))

			if err := tc.method(f, "wrote %s", "sdk.py"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := tc.prefix + " wrote sdk.py\n"
			if buf.String() != want {
				t.Errorf("expected %q, got %q", want, buf.String())
			}
		})
	}
}

func TestFormatter_HeaderAndItem(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf), WithColor(false))

	_ = f.Header("doc2code")
	_ = f.Item("Provider", "groq")

	want := "doc2code\n────────\n  Provider: groq\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatter_Table(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf), WithColor(false))

	data := TableData{
		Columns: []TableColumn{
			{Header: "ID"},
			{Header: "Tokens", Align: AlignRight},
		},
		Rows: [][]string{
			{"gpt-4o", "128000"},
			{"gemma-7b-it", "8192"},
		},
	}

	if err := f.Table(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		"ID           Tokens",
		"-----------  ------",
		"gpt-4o       128000",
		"gemma-7b-it    8192",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestFormatter_Table_EmptyColumns(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf))

	if err := f.Table(TableData{Rows: [][]string{{"a", "b"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output for empty columns, got %q", buf.String())
	}
}

func TestFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf))

	if err := f.JSON(map[string]any{"provider": "groq", "tokenLimit": 5000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["provider"] != "groq" {
		t.Errorf("expected provider 'groq', got %v", decoded["provider"])
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected indented JSON")
	}
}

func TestFormatter_FormatAuto(t *testing.T) {
	table := &TableData{
		Columns: []TableColumn{{Header: "Col"}},
		Rows:    [][]string{{"val"}},
	}

	t.Run("JSON format", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewFormatter(WithWriter(&buf), WithFormat(FormatJSON))

		if err := f.FormatAuto(map[string]string{"key": "value"}, table); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"key"`) {
			t.Error("expected JSON output")
		}
	})

	t.Run("text format renders table", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewFormatter(WithWriter(&buf), WithColor(false))

		if err := f.FormatAuto(nil, table); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "Col") {
			t.Errorf("expected table output, got %q", buf.String())
		}
	})
}

func TestPadCell(t *testing.T) {
	tests := []struct {
		text     string
		width    int
		align    Alignment
		expected string
	}{
		{"abc", 6, AlignLeft, "abc   "},
		{"abc", 6, AlignRight, "   abc"},
		{"abc", 6, AlignCenter, " abc  "},
		{"abc", 3, AlignLeft, "abc"},
		{"abc", 2, AlignLeft, "abc"},
	}

	for _, tc := range tests {
		if result := padCell(tc.text, tc.width, tc.align); result != tc.expected {
			t.Errorf("padCell(%q, %d, %v) = %q, expected %q",
				tc.text, tc.width, tc.align, result, tc.expected)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"", FormatText, false},
		{" JSON ", FormatJSON, false},
		{"table", FormatTable, false},
		{"yaml", FormatText, true},
	}

	for _, tc := range tests {
		got, err := ParseFormat(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestFormatter_ThreadSafety(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf), WithColor(false))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = f.Println("line %d", n)
			_ = f.Info("info %d", n)
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 40 {
		t.Errorf("expected 40 lines, got %d", got)
	}
}
