package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Follower streams lines appended to the daily log files of a directory,
// moving to the next file when the writer rotates.
type Follower struct {
	dir     string
	current string
	offset  int64
	partial []byte
}

// NewFollower starts following name in dir from its current end. An empty
// name selects the newest log file; with no files yet, following starts with
// the first file created.
func NewFollower(dir, name string) (*Follower, error) {
	if name == "" {
		files, err := ListLogFiles(dir)
		if err != nil {
			return nil, err
		}
		if len(files) > 0 {
			name = files[0]
		}
	}
	if name != "" && name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid log file name %q", name)
	}

	f := &Follower{dir: dir, current: name}
	if name != "" {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		f.offset = info.Size()
	}
	return f, nil
}

// Current returns the file being followed.
func (f *Follower) Current() string {
	return f.current
}

// Run emits each complete line as it is written until ctx is cancelled.
func (f *Follower) Run(ctx context.Context, emit func(line string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(f.dir); err != nil {
		return fmt.Errorf("failed to watch log directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, LogFileExt) {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create && name > f.current:
				if err := f.drain(emit); err != nil {
					return err
				}
				f.current = name
				f.offset = 0
				f.partial = nil
				if err := f.drain(emit); err != nil {
					return err
				}
			case event.Op&fsnotify.Write == fsnotify.Write && name == f.current:
				if err := f.drain(emit); err != nil {
					return err
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("log watcher: %w", err)
		}
	}
}

// drain reads everything past offset and emits the complete lines. A trailing
// partial line is held until its newline arrives.
func (f *Follower) drain(emit func(line string)) error {
	if f.current == "" {
		return nil
	}

	file, err := os.Open(filepath.Join(f.dir, f.current))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < f.offset {
		// truncated
		f.offset = 0
		f.partial = nil
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	f.offset += int64(len(data))

	data = append(f.partial, data...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		emit(strings.TrimRight(string(data[:i]), "\r"))
		data = data[i+1:]
	}
	f.partial = append([]byte(nil), data...)
	return nil
}
