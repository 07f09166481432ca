package output

import (
	"os"

	"github.com/jbctechsolutions/doc2code/internal/infrastructure/logging"
)

// colorsEnabled caches the result of color support detection.
var colorsEnabled *bool

// IsColorSupported determines if color output should be enabled.
// It checks for NO_COLOR environment variable and terminal capability.
func IsColorSupported() bool {
	if colorsEnabled != nil {
		return *colorsEnabled
	}

	enabled := detectColorSupport()
	colorsEnabled = &enabled
	return enabled
}

func detectColorSupport() bool {
	// See https://no-color.org/
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	if _, exists := os.LookupEnv("FORCE_COLOR"); exists {
		return true
	}

	stat, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	if stat.Mode()&os.ModeCharDevice == 0 {
		return false
	}

	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// ResetColorDetection clears the cached color detection result.
func ResetColorDetection() {
	colorsEnabled = nil
}

// LevelColor maps a log level to the color used by the log viewer.
func LevelColor(level logging.Level) Color {
	switch level {
	case logging.LevelError:
		return ColorRed
	case logging.LevelWarn:
		return ColorYellow
	case logging.LevelInfo:
		return ColorBlue
	case logging.LevelDebug:
		return ColorDim
	default:
		return ""
	}
}

// LogLine colors a raw log line by its detected level.
func (f *Formatter) LogLine(line string) string {
	return f.Colorize(line, LevelColor(logging.LineLevel(line)))
}
