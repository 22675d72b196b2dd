// Package statsqueue buffers play attempts in memory and persists them in
// batches from a single consumer.
package statsqueue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/rhythm-ranking/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/attr"
	"github.com/Black-And-White-Club/rhythm-ranking/app/observability/metrics"
	"github.com/Black-And-White-Club/rhythm-ranking/config"
)

const (
	queueName     = "attempt_stats"
	drainTimeout  = 10 * time.Second
	defaultBatch  = 500
	defaultTick   = 2 * time.Minute
	defaultBuffer = 1024
)

var (
	// ErrQueueFull is returned by Enqueue when the buffer is saturated.
	ErrQueueFull = errors.New("statsqueue: queue full")
	// ErrClosed is returned by Enqueue once the consumer has stopped.
	ErrClosed = errors.New("statsqueue: closed")
	// ErrAlreadyRunning is returned when a second consumer is started.
	ErrAlreadyRunning = errors.New("statsqueue: already running")
)

// Recorder persists a batch of attempts.
type Recorder interface {
	RecordAttempts(ctx context.Context, attempts []leaderboarddomain.Attempt) (leaderboardservice.AttemptsSummary, error)
}

// Queue is a bounded attempt buffer drained by one consumer.
type Queue struct {
	items         chan leaderboarddomain.Attempt
	recorder      Recorder
	logger        *slog.Logger
	metrics       metrics.Metrics
	flushInterval time.Duration
	maxBatch      int

	running atomic.Bool

	// mu orders sends against close so nothing lands after the final drain.
	mu     sync.RWMutex
	closed bool
}

// New creates a queue sized from configuration.
func New(recorder Recorder, logger *slog.Logger, m metrics.Metrics, cfg config.StatsQueueConfig) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = defaultBuffer
	}
	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = defaultTick
	}
	maxBatch := cfg.MaxBatch
	if maxBatch <= 0 {
		maxBatch = defaultBatch
	}
	return &Queue{
		items:         make(chan leaderboarddomain.Attempt, capacity),
		recorder:      recorder,
		logger:        logger,
		metrics:       m,
		flushInterval: interval,
		maxBatch:      maxBatch,
	}
}

// Enqueue adds an attempt without blocking.
func (q *Queue) Enqueue(ctx context.Context, a leaderboarddomain.Attempt) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	select {
	case q.items <- a:
		q.metrics.SetQueueDepth(ctx, queueName, len(q.items))
		return nil
	default:
		return ErrQueueFull
	}
}

// Len reports the number of buffered attempts.
func (q *Queue) Len() int { return len(q.items) }

// Run consumes the queue until ctx is cancelled, then drains what is left.
func (q *Queue) Run(ctx context.Context) error {
	if !q.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer q.running.Store(false)

	ticker := time.NewTicker(q.flushInterval)
	defer ticker.Stop()

	batch := make([]leaderboarddomain.Attempt, 0, q.maxBatch)
	for {
		select {
		case <-ctx.Done():
			q.mu.Lock()
			q.closed = true
			q.mu.Unlock()
			batch = q.drain(batch)
			drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
			q.flush(drainCtx, batch)
			cancel()
			return nil
		case a := <-q.items:
			batch = append(batch, a)
			if len(batch) >= q.maxBatch {
				q.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			q.flush(ctx, batch)
			batch = batch[:0]
		}
	}
}

func (q *Queue) drain(batch []leaderboarddomain.Attempt) []leaderboarddomain.Attempt {
	for {
		select {
		case a := <-q.items:
			batch = append(batch, a)
		default:
			return batch
		}
	}
}

func (q *Queue) flush(ctx context.Context, batch []leaderboarddomain.Attempt) {
	q.metrics.SetQueueDepth(ctx, queueName, len(q.items))
	if len(batch) == 0 {
		return
	}

	for start := 0; start < len(batch); start += q.maxBatch {
		end := min(start+q.maxBatch, len(batch))
		chunk := append([]leaderboarddomain.Attempt(nil), batch[start:end]...)

		summary, err := q.recorder.RecordAttempts(ctx, chunk)
		if err != nil {
			q.logger.ErrorContext(ctx, "Failed to persist attempt batch",
				attr.Int("attempts", len(chunk)),
				attr.Error(err),
			)
			continue
		}
		q.logger.DebugContext(ctx, "Persisted attempt batch",
			attr.Int("received", summary.Received),
			attr.Int("recorded", summary.Recorded),
			attr.Int("duplicates", summary.Duplicates),
			attr.Int("dropped", summary.Dropped),
		)
	}
}
