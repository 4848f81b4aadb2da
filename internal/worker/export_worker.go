package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lendit/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	redisQueueKey      = "lendit:export_queue"
	redisDeadLetterKey = "lendit:export_dead_letter"
)

// BookingSource supplies the rows for a snapshot.
type BookingSource interface {
	AllBookings(ctx context.Context) ([]*models.Booking, error)
}

// SnapshotWriter persists a snapshot and returns its location.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, bookings []*models.Booking) (string, error)
}

type exportTask struct {
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportWorker writes booking snapshots in the background after mutations.
// Tasks flow through an in-process channel; when Redis is configured the
// queue is mirrored there so operators can watch depth and dead letters.
type ExportWorker struct {
	source      BookingSource
	writer      SnapshotWriter
	redis       *redis.Client
	retryPolicy RetryPolicy
	queue       chan exportTask
	logger      *zerolog.Logger
}

func NewExportWorker(source BookingSource, writer SnapshotWriter, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *ExportWorker {
	return &ExportWorker{
		source:      source,
		writer:      writer,
		redis:       redisClient,
		retryPolicy: retry.normalized(),
		queue:       make(chan exportTask, models.WorkerQueueSize),
		logger:      logger,
	}
}

// EnqueueSnapshot schedules a snapshot. Never blocks; a full queue is an error.
func (w *ExportWorker) EnqueueSnapshot(ctx context.Context, reason string) error {
	task := exportTask{Reason: reason, CreatedAt: time.Now()}

	select {
	case w.queue <- task:
	default:
		return fmt.Errorf("export queue is full")
	}

	if w.redis != nil {
		data, err := json.Marshal(task)
		if err == nil {
			if err := w.redis.LPush(ctx, redisQueueKey, data).Err(); err != nil {
				w.logger.Warn().Err(err).Msg("export queue mirror push failed")
			}
		}
	}
	return nil
}

// Run consumes tasks until the context is canceled. Back-to-back tasks are
// coalesced: a snapshot taken now covers every mutation before it.
func (w *ExportWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			w.drainPending()
			w.process(ctx, task)
		}
	}
}

func (w *ExportWorker) drainPending() {
	for {
		select {
		case <-w.queue:
		default:
			return
		}
	}
}

func (w *ExportWorker) process(ctx context.Context, task exportTask) {
	var lastErr error
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		bookings, err := w.source.AllBookings(ctx)
		if err == nil {
			var path string
			path, err = w.writer.WriteSnapshot(ctx, bookings)
			if err == nil {
				w.logger.Info().Str("path", path).Str("reason", task.Reason).Int("bookings", len(bookings)).Msg("export snapshot written")
				w.ackMirror(ctx)
				return
			}
		}
		lastErr = err
		w.logger.Warn().Err(err).Int("attempt", attempt).Msg("export snapshot failed")

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}

	w.logger.Error().Err(lastErr).Str("reason", task.Reason).Msg("export snapshot dead-lettered")
	w.deadLetter(ctx, task)
}

func (w *ExportWorker) ackMirror(ctx context.Context) {
	if w.redis == nil {
		return
	}
	if err := w.redis.RPop(ctx, redisQueueKey).Err(); err != nil && err != redis.Nil {
		w.logger.Warn().Err(err).Msg("export queue mirror pop failed")
	}
}

func (w *ExportWorker) deadLetter(ctx context.Context, task exportTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		return
	}
	if err := w.redis.LPush(ctx, redisDeadLetterKey, data).Err(); err != nil {
		w.logger.Warn().Err(err).Msg("export dead letter push failed")
	}
}
