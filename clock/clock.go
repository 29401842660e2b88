// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package clock defines the clock/timer shim (spec component C9) the
// core uses for wall-time comparisons and scheduled callbacks, plus a
// Virtual implementation that advances only when told to — required for
// deterministic replay (Testable Property 5) and for driving the S1–S6
// scenarios without real sleeps.
package clock

import (
	"sync"
	"time"
)

// Clock is the core's view of time: a current instant, plus the ability
// to schedule a callback to fire at or after a future instant. Timer
// cancellation is explicit so the slot state machine can drop stale
// timeouts on phase transitions without them firing late.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a scheduled callback.
type Timer interface {
	Stop() bool
}

// Real wraps the operating system clock.
type Real struct{}

// Now returns the current wall-clock time.
func (Real) Now() time.Time { return time.Now() }

// AfterFunc schedules f to run after d using the standard library timer.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// pendingCallback is a callback scheduled against a Virtual clock.
type pendingCallback struct {
	fireAt   time.Time
	f        func()
	cancelled bool
}

func (p *pendingCallback) Stop() bool {
	already := p.cancelled
	p.cancelled = true
	return !already
}

// Virtual is a manually-advanced clock. Advance fires, in fireAt order,
// every scheduled callback whose time has come.
type Virtual struct {
	mu       sync.Mutex
	now      time.Time
	pending  []*pendingCallback
}

// NewVirtual returns a Virtual clock starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the clock's current virtual instant.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// AfterFunc schedules f to run once v.Now() reaches v.now+d, via a
// subsequent Advance call.
func (v *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	v.mu.Lock()
	defer v.mu.Unlock()
	cb := &pendingCallback{fireAt: v.now.Add(d), f: f}
	v.pending = append(v.pending, cb)
	return cb
}

// Advance moves the clock forward by d, synchronously firing every
// callback whose fireAt has been reached, in fireAt order.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	v.now = v.now.Add(d)
	now := v.now
	due := make([]*pendingCallback, 0, len(v.pending))
	var remaining []*pendingCallback
	for _, cb := range v.pending {
		if !cb.cancelled && !cb.fireAt.After(now) {
			due = append(due, cb)
		} else if !cb.cancelled {
			remaining = append(remaining, cb)
		}
	}
	v.pending = remaining
	v.mu.Unlock()

	for i := 0; i < len(due); i++ {
		for j := i + 1; j < len(due); j++ {
			if due[j].fireAt.Before(due[i].fireAt) {
				due[i], due[j] = due[j], due[i]
			}
		}
	}
	for _, cb := range due {
		cb.f()
	}
}
