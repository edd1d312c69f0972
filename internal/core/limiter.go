package core

// limiter.go bounds how many heavy requests (chart renders and CSV exports)
// run at once. Requests wait up to maxWait for a slot before failing with
// ErrBusy. Drain blocks shutdown until in-flight work is done.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrBusy is returned when no slot frees up within the wait time.
var ErrBusy = errors.New("server busy: too many concurrent renders")

const (
	DefaultMaxConcurrent = 4
	DefaultMaxWait       = 10 * time.Second
)

// Limiter is a counting semaphore with a bounded wait.
type Limiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewLimiter allows at most maxConcurrent holders. Non-positive arguments
// select the defaults.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	return &Limiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must Release it.
func (l *Limiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrBusy
	}
}

// Release returns a slot taken by Acquire.
func (l *Limiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Do runs fn while holding a slot.
func (l *Limiter) Do(ctx context.Context, fn func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}

// Active returns the number of slots in use.
func (l *Limiter) Active() int {
	return int(l.active.Load())
}

// Cap returns the slot count.
func (l *Limiter) Cap() int {
	return cap(l.slots)
}

// Drain blocks until no slot is held or ctx is done.
func (l *Limiter) Drain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
