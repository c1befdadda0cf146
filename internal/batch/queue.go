package batch

import (
	"log/slog"
	"slices"
	"sync"
)

// WorkQueue is the closed set of pending files. It is filled once and only
// shrinks; there is no ordering contract between files.
type WorkQueue struct {
	mu    sync.Mutex
	files []string
}

// NewWorkQueue copies files into a new queue.
func NewWorkQueue(files []string) *WorkQueue {
	return &WorkQueue{files: slices.Clone(files)}
}

// Pop removes one file. ok is false once the queue is empty.
func (q *WorkQueue) Pop() (file string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.files)
	if n == 0 {
		return "", false
	}
	file = q.files[n-1]
	q.files = q.files[:n-1]
	return file, true
}

// Len returns the number of pending files.
func (q *WorkQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.files)
}

// FileError is a failure recorded against one input file.
type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string {
	return "file " + e.File + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// ErrorSink collects per-file failures from all workers. Each report is
// appended and logged under one lock, so log lines never interleave.
type ErrorSink struct {
	mu      sync.Mutex
	entries []FileError
	logger  *slog.Logger
}

// NewErrorSink creates a sink that also logs each report to logger.
func NewErrorSink(logger *slog.Logger) *ErrorSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorSink{logger: logger}
}

// Report records err against file.
func (s *ErrorSink) Report(file string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, FileError{File: file, Err: err})
	s.logger.Error("File conversion failed", "file", file, "error", err)
}

// Errors returns a copy of the recorded failures.
func (s *ErrorSink) Errors() []FileError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Len returns the number of recorded failures.
func (s *ErrorSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
