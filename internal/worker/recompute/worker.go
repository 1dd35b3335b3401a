package recompute

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Job задание пересчёта календаря номера
type Job struct {
	RoomID int64
	Range  types.DateRange
	Reason string

	attempt int
}

// Config параметры фонового пересчёта
type Config struct {
	QueueSize      int
	MaxAttempts    int
	RetryBackoff   time.Duration // задержка растёт линейно: RetryBackoff * номер попытки
	ExtendInterval time.Duration // период продления горизонта для всех номеров
	JobTimeout     time.Duration
}

func (c *Config) applyDefaults() {
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 5 * time.Second
	}
	if c.ExtendInterval <= 0 {
		c.ExtendInterval = 24 * time.Hour
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = 30 * time.Second
	}
}

type delayed struct {
	job       Job
	notBefore time.Time
}

// Worker фоновый пересчёт календаря
// Ошибки пересчёта никогда не блокируют запросы бронирования
type Worker struct {
	calendar Calendar
	rooms    RoomLister
	cfg      Config
	logger   Logger
	now      func() time.Time

	jobs chan Job

	mu      sync.Mutex
	delayed []delayed
}

// NewWorker создает фоновый обработчик пересчёта
func NewWorker(calendar Calendar, rooms RoomLister, cfg Config, logger Logger) *Worker {
	cfg.applyDefaults()
	return &Worker{
		calendar: calendar,
		rooms:    rooms,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		jobs:     make(chan Job, cfg.QueueSize),
	}
}

// Enqueue ставит задание в очередь без блокировки
// При переполненной очереди задание уходит в список отложенных
func (w *Worker) Enqueue(job Job) {
	if job.Range.IsEmpty() {
		return
	}

	select {
	case w.jobs <- job:
	default:
		w.logger.Warn("recompute: queue full, deferring room=%d range=%s", job.RoomID, job.Range)
		w.postpone(job, w.now())
	}
}

// Pending количество заданий в очереди и отложенных
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.jobs) + len(w.delayed)
}

// Run обрабатывает задания до отмены контекста
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("recompute: worker started (max_attempts=%d, extend_interval=%s)", w.cfg.MaxAttempts, w.cfg.ExtendInterval)

	retryTicker := time.NewTicker(w.retryInterval())
	defer retryTicker.Stop()
	extendTicker := time.NewTicker(w.cfg.ExtendInterval)
	defer extendTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("recompute: worker stopped, %d job(s) left", w.Pending())
			return
		case job := <-w.jobs:
			w.process(ctx, job)
		case <-retryTicker.C:
			w.processDue(ctx)
		case <-extendTicker.C:
			w.ExtendHorizon(ctx)
		}
	}
}

// ExtendHorizon пересчитывает [сегодня, сегодня + горизонт) для всех известных номеров
// Так повторяющиеся блокировки разворачиваются по мере сдвига горизонта
func (w *Worker) ExtendHorizon(ctx context.Context) {
	refs, err := w.rooms.ListRooms(ctx)
	if err != nil {
		w.logger.Error("recompute: ExtendHorizon - list rooms: %v", err)
		return
	}

	horizon := w.calendar.Horizon()
	w.logger.Info("recompute: extending horizon %s for %d room(s)", horizon, len(refs))
	for _, ref := range refs {
		w.process(ctx, Job{RoomID: ref.RoomID, Range: horizon, Reason: "horizon"})
	}
}

func (w *Worker) process(ctx context.Context, job Job) {
	jobCtx, cancel := context.WithTimeout(ctx, w.cfg.JobTimeout)
	defer cancel()

	_, err := w.calendar.Recompute(jobCtx, job.RoomID, job.Range)
	if err == nil {
		return
	}
	if ctx.Err() != nil {
		return
	}

	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		w.logger.Warn("recompute: dropping room=%d range=%s: %v", job.RoomID, job.Range, err)
		return
	}

	job.attempt++
	if job.attempt >= w.cfg.MaxAttempts {
		w.logger.Error("recompute: giving up room=%d range=%s after %d attempt(s): %v", job.RoomID, job.Range, job.attempt, err)
		return
	}

	backoff := w.cfg.RetryBackoff * time.Duration(job.attempt)
	w.logger.Warn("recompute: room=%d attempt %d failed, retry in %s: %v", job.RoomID, job.attempt, backoff, err)
	w.postpone(job, w.now().Add(backoff))
}

func (w *Worker) processDue(ctx context.Context) {
	now := w.now()

	w.mu.Lock()
	due := make([]Job, 0)
	rest := w.delayed[:0]
	for _, d := range w.delayed {
		if !d.notBefore.After(now) {
			due = append(due, d.job)
			continue
		}
		rest = append(rest, d)
	}
	w.delayed = rest
	w.mu.Unlock()

	for _, job := range due {
		w.process(ctx, job)
	}
}

func (w *Worker) postpone(job Job, notBefore time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delayed = append(w.delayed, delayed{job: job, notBefore: notBefore})
}

func (w *Worker) retryInterval() time.Duration {
	if w.cfg.RetryBackoff < time.Second {
		return w.cfg.RetryBackoff
	}
	return time.Second
}
