package engine

import (
	"context"
	"sync"
	"time"
)

// Deferred is a transition scheduled to run after a display delay. It is
// bound to the run that created it: once the engine restarts or closes, the
// task is dead and firing it does nothing.
type Deferred struct {
	eng   *Engine
	epoch uint64
	delay time.Duration
	run   func(ctx context.Context)

	mu    sync.Mutex
	timer *time.Timer
	done  bool
}

// Delay is how long the caller should wait before firing.
func (d *Deferred) Delay() time.Duration {
	return d.delay
}

// Fire runs the transition now. It reports whether the transition was
// applied; a cancelled, already fired or stale task returns false.
func (d *Deferred) Fire(ctx context.Context) bool {
	d.mu.Lock()
	if d.done {
		d.mu.Unlock()
		return false
	}
	d.done = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	return d.eng.do(func() bool {
		if d.eng.epoch != d.epoch {
			return false
		}
		if d.eng.pending == d {
			d.eng.pending = nil
		}
		d.run(ctx)
		return true
	})
}

// Start arms a timer that fires the task after Delay.
func (d *Deferred) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done || d.timer != nil {
		return
	}
	d.timer = time.AfterFunc(d.delay, func() { d.Fire(ctx) })
}

// Cancel abandons the task. It reports whether the task was still pending.
func (d *Deferred) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return false
	}
	d.done = true
	if d.timer != nil {
		d.timer.Stop()
	}
	return true
}

// Done reports whether the task has fired or been cancelled.
func (d *Deferred) Done() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}
