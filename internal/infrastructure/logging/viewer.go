package logging

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListLogFiles returns the daily log file names in dir, newest first.
func ListLogFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), LogFileExt) {
			files = append(files, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

// ReadLogFile returns the lines of dir/name.
func ReadLogFile(dir, name string) ([]string, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid log file name %q", name)
	}

	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// Filter selects log lines for display.
type Filter struct {
	Level  Level  // empty keeps every level
	Search string // case-insensitive substring
	Tail   int    // keep only the last Tail matches when positive
}

// Match reports whether a single line passes the level and search filters.
func (f Filter) Match(line string) bool {
	if f.Level != "" && LineLevel(line) != f.Level {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(line), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// FilterLines applies f to lines.
func FilterLines(lines []string, f Filter) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if f.Match(line) {
			out = append(out, line)
		}
	}
	if f.Tail > 0 && len(out) > f.Tail {
		out = out[len(out)-f.Tail:]
	}
	return out
}

// LineLevel detects the level of a text or JSON formatted log line.
// It returns "" for lines that carry no level.
func LineLevel(line string) Level {
	for _, lvl := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		upper := strings.ToUpper(string(lvl))
		if strings.Contains(line, "level="+upper) || strings.Contains(line, `"level":"`+upper+`"`) {
			return lvl
		}
	}
	return ""
}
