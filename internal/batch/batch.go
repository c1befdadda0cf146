// Package batch converts a closed set of files on a fixed pool of workers.
//
// Workers share exactly two resources, each behind its own mutex:
//   - WorkQueue: the pending file names, drained monotonically to empty
//   - ErrorSink: per-file failures, appended until the run ends
//
// Everything else a worker touches while processing a file (sample buffers,
// encoder state) is owned by that worker for the file's lifetime.
package batch

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"
)

// WorkersEnv overrides the default worker count when set to a positive integer.
const WorkersEnv = "WAV2MP3_WORKERS"

// DefaultWorkers returns the worker count to use when none is configured:
// WAV2MP3_WORKERS if valid, otherwise the number of logical CPUs.
func DefaultWorkers() int {
	if env := os.Getenv(WorkersEnv); env != "" {
		if parsed, err := strconv.Atoi(env); err == nil && parsed > 0 {
			return parsed
		}
	}
	return runtime.NumCPU()
}

// ProcessFunc handles one file. A returned error is recorded against the file.
type ProcessFunc func(file string) error

// Config holds the dispatcher settings.
type Config struct {
	// Workers is the pool size. Values below 1 select DefaultWorkers.
	Workers int
}

// Result summarizes a finished run.
type Result struct {
	Total     int
	Succeeded int
	Failed    []FileError
	Workers   int
	Elapsed   time.Duration
}

// Dispatcher runs ProcessFunc over a file list with a fixed worker pool.
type Dispatcher struct {
	workers int
	process ProcessFunc
	logger  *slog.Logger
}

// New creates a Dispatcher.
func New(cfg Config, process ProcessFunc, logger *slog.Logger) *Dispatcher {
	workers := cfg.Workers
	if workers < 1 {
		workers = DefaultWorkers()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		workers: workers,
		process: process,
		logger:  logger,
	}
}

// Workers returns the pool size used by Run.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// Run processes every file exactly once and returns after all workers have
// found the queue empty and exited. Per-file failures never stop the run.
func (d *Dispatcher) Run(files []string) Result {
	start := time.Now()

	queue := NewWorkQueue(files)
	sink := NewErrorSink(d.logger)

	d.logger.Info("Batch starting",
		"files", len(files),
		"workers", d.workers)

	var wg sync.WaitGroup
	for id := range d.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.work(id, queue, sink)
		}()
	}
	wg.Wait()

	failed := sink.Errors()
	result := Result{
		Total:     len(files),
		Succeeded: len(files) - len(failed),
		Failed:    failed,
		Workers:   d.workers,
		Elapsed:   time.Since(start),
	}

	d.logger.Info("Batch complete",
		"converted", result.Succeeded,
		"failed", len(result.Failed),
		"total", result.Total,
		"duration", result.Elapsed.Round(time.Millisecond))

	return result
}

func (d *Dispatcher) work(id int, queue *WorkQueue, sink *ErrorSink) {
	processed := 0
	for {
		file, ok := queue.Pop()
		if !ok {
			d.logger.Debug("Worker finished", "worker", id, "processed", processed)
			return
		}
		processed++

		if err := d.runOne(file); err != nil {
			sink.Report(file, err)
		}
	}
}

// runOne isolates a panicking ProcessFunc to the file that caused it.
func (d *Dispatcher) runOne(file string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing: %v", r)
		}
	}()
	return d.process(file)
}
