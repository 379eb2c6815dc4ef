package shell

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/quizwise/internal/logger"
)

// writeTimeout bounds a single background write.
const writeTimeout = 10 * time.Second

// writeJob is one fire-and-forget persistence call.
type writeJob struct {
	name string
	run  func(ctx context.Context) error
	done func(error)
}

// Writer runs persistence jobs on a single worker goroutine so the quiz
// flow never waits on the database. Safe for concurrent use.
type Writer struct {
	log     *logger.Logger
	pending chan writeJob

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewWriter starts a writer with a queue of the given size.
func NewWriter(size int, log *logger.Logger) *Writer {
	if size <= 0 {
		size = 32
	}
	w := &Writer{
		log:     logger.OrNop(log).With("component", "writer"),
		pending: make(chan writeJob, size),
	}
	w.wg.Add(1)
	go w.processLoop()
	return w
}

// Enqueue schedules run. done, when non-nil, is called from the worker
// with the job's error. Returns false when the job was dropped because the
// queue is full or the writer is closed.
func (w *Writer) Enqueue(name string, run func(ctx context.Context) error, done func(error)) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.log.Warn("write dropped after close", "job", name)
		return false
	}

	select {
	case w.pending <- writeJob{name: name, run: run, done: done}:
		return true
	default:
		w.log.Warn("write queue full, dropping job", "job", name)
		return false
	}
}

func (w *Writer) processLoop() {
	defer w.wg.Done()
	for job := range w.pending {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := job.run(ctx)
		cancel()
		if err != nil {
			w.log.Warn("background write failed", "job", job.name, "error", err)
		}
		if job.done != nil {
			job.done(err)
		}
	}
}

// Close stops accepting jobs and waits for the queued ones to finish.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.pending)
	w.mu.Unlock()
	w.wg.Wait()
}
