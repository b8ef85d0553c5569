package retry

import (
	"context"
	"errors"
	"time"
)

type Retrier struct {
	Context  context.Context
	Policy   Policy
	Step     int
	Delay    time.Duration
	Deadline time.Time
}

func (p Policy) RetrierContext(ctx context.Context) *Retrier {
	rt := &Retrier{
		Context: ctx,
		Policy:  p.Normalize(),
	}
	rt.Deadline = time.Now().Add(rt.Policy.Timeout.Duration())
	if deadline, ok := ctx.Deadline(); ok && deadline.Before(rt.Deadline) {
		rt.Deadline = deadline
	}
	return rt
}

// Wait sleeps for the next delay. It fails if attempts or time ran out, or
// the context ended.
func (r *Retrier) Wait() error {
	if err := r.Policy.Step(&r.Step, &r.Delay); err != nil {
		return err
	}
	delay := r.Delay
	if err := r.Context.Err(); err != nil {
		return err
	}
	if time.Until(r.Deadline) < delay {
		return ErrDeadlineExceeded
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-r.Context.Done():
		return r.Context.Err()
	case <-timer.C:
		return nil
	}
}

// Consume waits before the next attempt if err is retryable, otherwise it
// returns err.
func (r *Retrier) Consume(err error) error {
	if !Retryable(err) {
		return err
	}
	if e := r.Wait(); e != nil {
		return errors.Join(e, err)
	}
	return nil
}

// Run calls f until it succeeds or the retrier gives up.
func (r *Retrier) Run(f func() error) (err error) {
	for {
		if err = f(); err == nil {
			return
		}
		if err = r.Consume(err); err != nil {
			return
		}
	}
}

// RunContext runs f with a fresh retrier bound to ctx.
func (p Policy) RunContext(ctx context.Context, f func() error) error {
	return p.RetrierContext(ctx).Run(f)
}
