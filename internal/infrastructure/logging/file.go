package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DateLayout names daily log files.
const DateLayout = "2006-01-02"

// LogFileExt is the extension of daily log files.
const LogFileExt = ".log"

// DailyFileWriter appends to dir/YYYY-MM-DD.log, switching files when the
// local date changes.
type DailyFileWriter struct {
	dir string
	now func() time.Time

	mu   sync.Mutex
	date string
	file *os.File
}

// NewDailyFileWriter creates dir if needed and returns a writer into it.
func NewDailyFileWriter(dir string) (*DailyFileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &DailyFileWriter{dir: dir, now: time.Now}, nil
}

// Dir returns the directory log files are written to.
func (w *DailyFileWriter) Dir() string {
	return w.dir
}

// Write implements io.Writer.
func (w *DailyFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	date := w.now().Format(DateLayout)
	if w.file == nil || date != w.date {
		if err := w.rotate(date); err != nil {
			return 0, err
		}
	}
	return w.file.Write(p)
}

func (w *DailyFileWriter) rotate(date string) error {
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}
	f, err := os.OpenFile(filepath.Join(w.dir, date+LogFileExt), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	w.file = f
	w.date = date
	return nil
}

// Close closes the current file.
func (w *DailyFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
