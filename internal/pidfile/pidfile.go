// Package pidfile records the daemon's process id for init scripts.
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// File is a written pid file. Remove only deletes it if it still holds our pid.
type File struct {
	path string
	pid  int
}

// Write writes the current pid to path, replacing any stale file atomically.
func Write(path string) (*File, error) {
	return write(path, os.Getpid())
}

func write(path string, pid int) (*File, error) {
	if path == "" {
		return nil, errors.New("pid file path is empty")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("create pid file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := fmt.Fprintf(tmp, "%d\n", pid); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write pid file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("chmod pid file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close pid file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("install pid file: %w", err)
	}
	return &File{path: path, pid: pid}, nil
}

// Path returns the file location.
func (f *File) Path() string { return f.path }

// Read parses the pid stored at path.
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse pid file %s: %w", path, err)
	}
	return pid, nil
}

// Remove deletes the file if it still names this process.
func (f *File) Remove() error {
	if f == nil {
		return nil
	}
	pid, err := Read(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if pid != f.pid {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove pid file: %w", err)
	}
	return nil
}
