// Package batch hands work from many producers to a single consumer in
// batches, without losing or duplicating items across the handoff.
package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"get.pme.sh/atomix/concurrent"
	"get.pme.sh/atomix/retry"
	"get.pme.sh/atomix/util"
	"get.pme.sh/atomix/xlog"
)

var ErrNilHandler = errors.New("batch: nil handler")

// Handler processes a batch and returns the items that should be tried again.
// A non-nil error with no failed items means the whole batch failed.
type Handler[T comparable] func(ctx context.Context, items []T) (failed []T, err error)

type Stats struct {
	Flushes  int64 `json:"flushes"`
	Handled  int64 `json:"handled"`
	Deferred int64 `json:"deferred"`
	Dropped  int64 `json:"dropped"`
}

func (s *Stats) add(o Stats) {
	s.Flushes += o.Flushes
	s.Handled += o.Handled
	s.Deferred += o.Deferred
	s.Dropped += o.Dropped
}

type Option func(*options)

type options struct {
	policy   retry.Policy
	interval util.Duration
	timeout  util.Duration
	logger   *xlog.Logger
}

// WithPolicy sets the attempt budget per item and the backoff used by Run.
func WithPolicy(p retry.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithInterval sets how often Run flushes.
func WithInterval(d util.Duration) Option {
	return func(o *options) { o.interval = d }
}

// WithFlushTimeout bounds each handler call. Zero or negative means no bound.
func WithFlushTimeout(d util.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithLogger(l *xlog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Accumulator collects unique items pushed by producers and hands them to a
// handler in batches. Items the handler reports as failed are carried into
// the next batch until the policy's attempt budget is spent.
type Accumulator[T comparable] struct {
	handler  Handler[T]
	policy   retry.Policy
	interval util.Duration
	timeout  util.Duration
	logger   *xlog.Logger

	pending  concurrent.Set[T]
	attempts concurrent.Map[T, int]

	flushMu  sync.Mutex // serializes consumers
	deferred []T

	total struct {
		flushes, handled, deferred, dropped atomic.Int64
	}
}

func New[T comparable](handler Handler[T], opts ...Option) (*Accumulator[T], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	o := options{
		policy:   retry.Basic(),
		interval: util.Duration(time.Second),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = xlog.NewDomain("batch")
	}
	return &Accumulator[T]{
		handler:  handler,
		policy:   o.policy.Normalize(),
		interval: o.interval,
		timeout:  o.timeout,
		logger:   o.logger,
	}, nil
}

// Push queues items and returns how many were not already queued. All items
// of one call land in the same batch.
func (a *Accumulator[T]) Push(items ...T) (queued int) {
	return a.pending.TryAddRange(items...)
}

// Len is the number of items waiting for the next flush.
func (a *Accumulator[T]) Len() int {
	return a.pending.Len()
}

func (a *Accumulator[T]) Stats() Stats {
	return Stats{
		Flushes:  a.total.flushes.Load(),
		Handled:  a.total.handled.Load(),
		Deferred: a.total.deferred.Load(),
		Dropped:  a.total.dropped.Load(),
	}
}

// Flush takes everything queued so far and hands it to the handler. The items
// that failed in the previous flush seed the next batch in the same atomic
// step, so an item pushed concurrently lands either in this batch or the next,
// never both.
func (a *Accumulator[T]) Flush(ctx context.Context) (stats Stats, err error) {
	a.flushMu.Lock()
	defer a.flushMu.Unlock()

	items := a.pending.GetAndClearAndAdd(a.deferred...)
	a.deferred = nil
	if len(items) == 0 {
		return
	}
	stats.Flushes = 1

	hctx, cancel := a.timeout.Timeout(ctx)
	failed, err := a.handler(hctx, items)
	cancel()
	if err != nil && len(failed) == 0 {
		failed = items
	}
	retried := make(map[T]struct{}, len(failed))
	for _, item := range failed {
		if _, dup := retried[item]; dup {
			continue
		}
		retried[item] = struct{}{}

		n := concurrent.GetOrAddZero[T, int](&a.attempts, item) + 1
		if a.policy.Allows(n) {
			a.attempts.Set(item, n)
			a.deferred = append(a.deferred, item)
			stats.Deferred++
		} else {
			a.attempts.TryRemove(item)
			stats.Dropped++
			a.logger.Warn().Interface("item", item).Int("attempts", n).Msg("Dropping item")
		}
	}
	for _, item := range items {
		if _, ok := retried[item]; !ok {
			a.attempts.TryRemove(item)
			stats.Handled++
		}
	}

	a.total.flushes.Add(stats.Flushes)
	a.total.handled.Add(stats.Handled)
	a.total.deferred.Add(stats.Deferred)
	a.total.dropped.Add(stats.Dropped)
	a.logger.Debug().
		Int("batch", len(items)).
		Int64("handled", stats.Handled).
		Int64("deferred", stats.Deferred).
		Int64("dropped", stats.Dropped).
		Err(err).
		Msg("Flushed batch")
	return
}

// Drain flushes until nothing is queued or deferred. With an unlimited
// attempt budget it also stops once a flush makes no progress.
func (a *Accumulator[T]) Drain(ctx context.Context) (stats Stats, err error) {
	for ctx.Err() == nil {
		s, e := a.Flush(ctx)
		stats.add(s)
		if e != nil {
			err = e
		}
		if s.Flushes == 0 && a.Len() == 0 {
			return stats, err
		}
		if a.policy.Attempts < 0 && s.Flushes > 0 && s.Handled == 0 && s.Dropped == 0 {
			return stats, err
		}
	}
	return stats, ctx.Err()
}

// Run flushes every interval until ctx ends, then drains what is left. While
// the handler keeps failing with retryable errors, flushes are spaced by the
// policy's backoff instead.
//
// A non-retryable handler error stops Run at once without draining. The
// failed batch stays deferred and later pushes stay queued, so a following
// Flush, Drain or Run hands them to the handler again.
func (a *Accumulator[T]) Run(ctx context.Context) error {
	ticker := a.interval.Ticker()
	if ticker == nil {
		ticker = time.NewTicker(time.Second)
	}
	defer ticker.Stop()

	backoff := a.policy.RetrierContext(ctx)
	for {
		select {
		case <-ctx.Done():
			_, err := a.Drain(context.WithoutCancel(ctx))
			return err
		case <-ticker.C:
		}

		_, err := a.Flush(ctx)
		if err == nil {
			backoff = a.policy.RetrierContext(ctx)
			continue
		}
		if !retry.Retryable(err) {
			a.logger.Error().Stack().Err(xlog.WrapStackError(err)).Msg("Handler failed permanently")
			return err
		}
		if werr := backoff.Wait(); werr != nil && ctx.Err() == nil {
			a.logger.Warn().Err(err).Msg("Handler keeps failing")
			backoff = a.policy.RetrierContext(ctx)
		}
	}
}
