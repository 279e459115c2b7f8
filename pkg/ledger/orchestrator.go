package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hbenmansour/cashops/pkg/config"
	"github.com/hbenmansour/cashops/pkg/domain"
	"github.com/hbenmansour/cashops/pkg/dto"
	"github.com/hbenmansour/cashops/pkg/metrics"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Source reads the three backing collections. Implementations live in
// infra/repository.
type Source interface {
	ListDeposits(ctx context.Context) ([]dto.DepositRead, error)
	ListWithdrawals(ctx context.Context) ([]dto.WithdrawalRead, error)
	ListTransfers(ctx context.Context) ([]dto.TransferRead, error)
}

// State is the orchestrator fetch state.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateRetrying
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateRetrying:
		return "retrying"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ErrClosed is returned by Fetch after Close: the consumer is gone and
// results must not be applied.
var ErrClosed = errors.New("ledger: orchestrator closed")

const flightKey = "timeline"

// Orchestrator owns the concurrency-controlled fetch cycle over the three
// collections. Concurrent unforced callers coalesce into one in-flight
// request; a forced fetch cancels the in-flight one, so at most one live
// request exists at any time. Failures retry automatically with exponential
// backoff up to the configured cap, then the orchestrator parks in
// StateFailed until the next manual fetch.
type Orchestrator struct {
	src       Source
	cfg       config.Fetch
	logger    *slog.Logger
	collector metrics.Collector
	// onError surfaces a user-visible notice: the first failed attempt of a
	// cycle and any forced-refresh failure. Silent retries never call it.
	onError func(error)

	sf singleflight.Group

	mu          sync.Mutex
	state       State
	timeline    []domain.Operation
	lastErr     error
	lastFetch   time.Time
	retriesLeft int
	gen         uint64
	cancel      context.CancelFunc
	retryTimer  *time.Timer
	closed      bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCollector wires a metrics collector.
func WithCollector(c metrics.Collector) Option {
	return func(o *Orchestrator) { o.collector = c }
}

// WithErrorNotifier registers the user-visible error callback.
func WithErrorNotifier(fn func(error)) Option {
	return func(o *Orchestrator) { o.onError = fn }
}

// NewOrchestrator creates an Orchestrator over src with the given fetch
// configuration.
func NewOrchestrator(src Source, cfg config.Fetch, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		src:         src,
		cfg:         cfg,
		logger:      logger.With("component", "ledger.orchestrator"),
		collector:   metrics.NoOpCollector{},
		retriesLeft: cfg.MaxRetries,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fetch refreshes the timeline and returns the current snapshot. Unforced
// calls join an in-flight fetch and are rate-limited against the previous
// one; forced calls cancel the in-flight fetch and start over. On failure the
// stale timeline is returned alongside the error; no partial-collection view
// is ever published. The flight itself runs under the watchdog timeout, not
// the caller's ctx: a shared flight must not die with one of its waiters.
func (o *Orchestrator) Fetch(ctx context.Context, force bool) ([]domain.Operation, error) {
	o.mu.Lock()
	if o.closed {
		snapshot := o.timeline
		o.mu.Unlock()
		return snapshot, ErrClosed
	}
	if !force && o.state != StateFetching &&
		!o.lastFetch.IsZero() && time.Since(o.lastFetch) < o.cfg.RateLimitWindow {
		snapshot := o.timeline
		o.mu.Unlock()
		o.collector.FetchSkipped("rate_limited")
		return snapshot, nil
	}
	joining := !force && o.state == StateFetching
	o.mu.Unlock()

	if joining {
		o.collector.FetchSkipped("in_flight")
	}
	if force {
		o.sf.Forget(flightKey)
	}

	v, err, _ := o.sf.Do(flightKey, func() (any, error) {
		return o.doFetch(force, false)
	})
	timeline, _ := v.([]domain.Operation)
	return timeline, err
}

// Timeline returns the last successfully published timeline.
func (o *Orchestrator) Timeline() []domain.Operation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.timeline
}

// State returns the current fetch state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastError returns the error of the most recent failed cycle, nil after a
// success.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Close tears the orchestrator down: the in-flight fetch is cancelled, any
// pending retry is dropped, and late results are discarded instead of
// applied.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	if o.cancel != nil {
		o.cancel()
	}
	if o.retryTimer != nil {
		o.retryTimer.Stop()
		o.retryTimer = nil
	}
	o.state = StateIdle
}

func (o *Orchestrator) doFetch(force, silentRetry bool) ([]domain.Operation, error) {
	o.mu.Lock()
	if o.closed {
		snapshot := o.timeline
		o.mu.Unlock()
		return snapshot, ErrClosed
	}
	// Starting a new cycle supersedes the previous one: cancel it and drop
	// any pending retry.
	if o.cancel != nil {
		o.cancel()
	}
	if o.retryTimer != nil {
		o.retryTimer.Stop()
		o.retryTimer = nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), o.cfg.Timeout)
	o.cancel = cancel
	o.gen++
	gen := o.gen
	o.state = StateFetching
	o.lastFetch = time.Now()
	o.mu.Unlock()

	o.collector.FetchStarted()
	start := time.Now()

	var (
		deposits    []dto.DepositRead
		withdrawals []dto.WithdrawalRead
		transfers   []dto.TransferRead
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		deposits, err = o.src.ListDeposits(gctx)
		return err
	})
	g.Go(func() (err error) {
		withdrawals, err = o.src.ListWithdrawals(gctx)
		return err
	})
	g.Go(func() (err error) {
		transfers, err = o.src.ListTransfers(gctx)
		return err
	})
	err := g.Wait()
	cancel()

	o.mu.Lock()
	defer o.mu.Unlock()
	// Liveness: the consumer may be gone or a newer cycle may have started
	// while we were suspended. Stale results are discarded, not applied.
	if o.closed {
		return o.timeline, ErrClosed
	}
	if o.gen != gen {
		return o.timeline, nil
	}

	elapsed := time.Since(start)
	if err != nil {
		outcome := "failure"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %v", domain.ErrFetchTimeout, o.cfg.Timeout, err)
			outcome = "timeout"
		}
		o.failLocked(err, force, silentRetry)
		o.collector.FetchCompleted(outcome, elapsed)
		return o.timeline, err
	}

	o.timeline = BuildTimeline(deposits, withdrawals, transfers)
	o.retriesLeft = o.cfg.MaxRetries
	o.state = StateIdle
	o.lastErr = nil
	o.collector.FetchCompleted("success", elapsed)
	o.logger.Debug("timeline refreshed",
		"operations", len(o.timeline),
		"elapsed", elapsed,
	)
	return o.timeline, nil
}

// failLocked records a failed cycle and schedules the next retry, or parks in
// StateFailed once the retries are spent. Callers hold o.mu.
func (o *Orchestrator) failLocked(err error, force, silentRetry bool) {
	o.lastErr = err
	firstFailure := o.retriesLeft == o.cfg.MaxRetries
	if (firstFailure && !silentRetry) || force {
		o.notify(err)
	}
	o.logger.Warn("timeline fetch failed",
		"error", err,
		"retries_left", o.retriesLeft,
		"forced", force,
	)

	if o.retriesLeft <= 0 {
		o.state = StateFailed
		return
	}
	delay := o.backoff(o.cfg.MaxRetries - o.retriesLeft)
	o.retriesLeft--
	o.state = StateRetrying
	o.collector.RetryScheduled()
	o.retryTimer = time.AfterFunc(delay, o.retry)
	o.logger.Info("retry scheduled", "delay", delay)
}

// backoff computes min(base * 2^retriesUsed, cap).
func (o *Orchestrator) backoff(retriesUsed int) time.Duration {
	d := o.cfg.BackoffBase << uint(retriesUsed)
	if d > o.cfg.BackoffCap || d <= 0 {
		return o.cfg.BackoffCap
	}
	return d
}

func (o *Orchestrator) retry() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	_, _, _ = o.sf.Do(flightKey, func() (any, error) {
		return o.doFetch(false, true)
	})
}

func (o *Orchestrator) notify(err error) {
	if o.onError != nil {
		o.onError(err)
	}
}
