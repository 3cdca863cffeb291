package main

import (
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Log files grow to logLimitBytes, then are cut back to their newest
// logKeepBytes.
const (
	logLimitBytes = 6 << 20
	logKeepBytes  = 5 << 20
)

// cappedLogFile is an io.Writer over an append-only file whose size stays
// under a limit by discarding the oldest bytes.
type cappedLogFile struct {
	mu    sync.Mutex
	file  *os.File
	limit int64
	keep  int64
}

func newLogFileWriter(path string) (*cappedLogFile, *os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	w := &cappedLogFile{file: file, limit: logLimitBytes, keep: logKeepBytes}
	if err := w.trim(); err != nil {
		file.Close()
		return nil, nil, err
	}
	return w, file, nil
}

func (w *cappedLogFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	return n, w.trim()
}

func (w *cappedLogFile) trim() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= w.limit {
		return nil
	}

	tail := make([]byte, w.keep)
	n, err := w.file.ReadAt(tail, size-w.keep)
	if err != nil && err != io.EOF {
		return err
	}
	if err := w.file.Truncate(0); err != nil {
		return err
	}
	// O_APPEND writes land at the new end after truncation.
	_, err = w.file.Write(tail[:n])
	return err
}
