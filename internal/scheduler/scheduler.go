package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"SheetSentinel/internal/collector"
	"SheetSentinel/internal/metrics"
	"SheetSentinel/internal/model"
	"SheetSentinel/internal/notifier"
)

// Watcher runs the collector on a cron schedule and keeps the latest report.
type Watcher struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  notifier.Notifier
	Metrics   *metrics.Metrics
	Timeout   time.Duration
	Log       zerolog.Logger

	mu       sync.RWMutex
	latest   *model.Report
	lastKind model.SignalKind
	failing  bool
	runMu    sync.Mutex
}

// NewWatcher creates a new Watcher.
func NewWatcher(col *collector.Collector, n notifier.Notifier, m *metrics.Metrics, timeout time.Duration, log zerolog.Logger) *Watcher {
	if n == nil {
		n = notifier.NewNoopNotifier()
	}
	return &Watcher{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  n,
		Metrics:   m,
		Timeout:   timeout,
		Log:       log.With().Str("component", "watcher").Logger(),
	}
}

// Register adds the analysis job with the given cron spec (seconds field included).
func (w *Watcher) Register(ctx context.Context, spec string) error {
	if _, err := w.Cron.AddFunc(spec, func() {
		if _, err := w.RunNow(ctx); err != nil {
			w.Log.Error().Err(err).Msg("scheduled run failed")
		}
	}); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (w *Watcher) Start() {
	w.Cron.Start()
	w.Log.Info().Msg("scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (w *Watcher) Stop() {
	<-w.Cron.Stop().Done()
	w.Log.Info().Msg("scheduler stopped")
}

// Latest returns the report of the last successful run, or nil.
func (w *Watcher) Latest() *model.Report {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest
}

// RunNow performs one fetch and analysis. Runs are serialized.
func (w *Watcher) RunNow(ctx context.Context) (*model.Report, error) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	start := time.Now()
	r, err := w.Collector.Collect(ctx)
	took := time.Since(start)
	if err != nil {
		var fe *collector.FetchError
		w.observeFailure(errors.As(err, &fe), took)
		w.failed(ctx, err)
		return nil, err
	}
	if w.Metrics != nil {
		w.Metrics.ObserveSuccess(r.Signal, took)
	}

	w.mu.Lock()
	changed := r.Signal.Kind != w.lastKind
	w.latest = r
	w.lastKind = r.Signal.Kind
	w.failing = false
	w.mu.Unlock()

	if changed {
		w.Log.Info().Str("signal", string(r.Signal.Kind)).Msg("signal changed")
		w.send(ctx, notifier.FormatReport(r))
	}
	return r, nil
}

// HandleCommand processes a chat command and returns a reply.
func (w *Watcher) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/signal", "/report":
		r := w.Latest()
		if r == nil {
			return "no report yet"
		}
		return notifier.FormatReport(r)
	case "/run":
		r, err := w.RunNow(ctx)
		if err != nil {
			return notifier.FormatError(err)
		}
		return notifier.FormatReport(r)
	default:
		return "Commands:\n• /signal latest report\n• /run analyze now"
	}
}

func (w *Watcher) observeFailure(fetch bool, took time.Duration) {
	if w.Metrics != nil {
		w.Metrics.ObserveFailure(fetch, took)
	}
}

// failed notifies once per streak of failures.
func (w *Watcher) failed(ctx context.Context, err error) {
	w.mu.Lock()
	first := !w.failing
	w.failing = true
	w.mu.Unlock()

	w.Log.Error().Err(err).Msg("analysis run failed")
	if first {
		w.send(ctx, notifier.FormatError(err))
	}
}

func (w *Watcher) send(ctx context.Context, text string) {
	err := w.Notifier.Send(ctx, text)
	if w.Metrics != nil {
		w.Metrics.ObserveNotification(err)
	}
	if err != nil {
		w.Log.Error().Err(err).Msg("send notification")
	}
}
