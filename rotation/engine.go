// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rotation

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/danielhkuo/follow-rotator/clock"
	"github.com/danielhkuo/follow-rotator/models"
	"github.com/danielhkuo/follow-rotator/platform"
)

// MinCycle is the shortest interval between two content swaps
const MinCycle = 100 * time.Millisecond

var (
	ErrEmptyConfiguration = errors.New("configuration has no items")
	ErrAlreadyStarted     = errors.New("engine already started")
	ErrStopped            = errors.New("engine stopped")
)

// State of the rotation
type State int

const (
	// Displaying: the current item is visible and static
	Displaying State = iota
	// Transitioning: exit animation running, content swap pending
	Transitioning
)

func (s State) String() string {
	switch s {
	case Displaying:
		return "displaying"
	case Transitioning:
		return "transitioning"
	}
	return "unknown"
}

// Renderer receives the engine's visual updates. Methods are called with
// the engine lock held and must not call back into the Engine.
type Renderer interface {
	UpdateContent(index int, item models.RotationItem, p platform.Platform)
	UpdateBackground(index int, item models.RotationItem, p platform.Platform)
	AnimateOut(index int)
	AnimateIn(index int)
}

// Engine cycles through the configured items forever:
// hold, exit animation, swap to the next item, enter animation.
type Engine struct {
	mu       sync.Mutex
	items    []models.RotationItem
	timing   models.TimingConfig
	registry *platform.Registry
	renderer Renderer
	clock    clock.Clock

	interval  time.Duration
	index     int
	state     State
	started   bool
	stopped   bool
	startedAt time.Time
	nextDue   time.Time
	cycle     int
	tickTimer clock.Timer
	swapTimer clock.Timer
}

type Option func(*Engine)

// WithClock replaces the wall clock, e.g. with clock.Manual in tests
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// New creates an engine for cfg. The configuration is copied; later
// changes to cfg do not affect the engine.
func New(cfg models.Configuration, registry *platform.Registry, renderer Renderer, opts ...Option) (*Engine, error) {
	if len(cfg.Items) == 0 {
		return nil, ErrEmptyConfiguration
	}
	e := &Engine{
		items:    slices.Clone(cfg.Items),
		timing:   cfg.Timing,
		registry: registry,
		renderer: renderer,
		clock:    clock.Real{},
		state:    Displaying,
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Start paints the first item and begins the cycle
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return ErrStopped
	}
	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true

	// Fixed for the lifetime of this run
	e.interval = IntervalFor(e.timing)
	e.startedAt = e.clock.Now()
	e.nextDue = e.startedAt

	// First paint has no exit animation
	e.index = 0
	e.state = Displaying
	e.paintLocked()
	e.renderer.AnimateIn(e.index)

	e.scheduleTickLocked(1)
	return nil
}

// Stop cancels pending timers. No renderer method is called after Stop
// returns.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopped = true
	if e.tickTimer != nil {
		e.tickTimer.Stop()
		e.tickTimer = nil
	}
	if e.swapTimer != nil {
		e.swapTimer.Stop()
		e.swapTimer = nil
	}
}

// IntervalFor returns the time between swaps for timing: hold plus both
// animations, at least MinCycle. Values above models.MaxTimingMs count as
// the maximum.
func IntervalFor(timing models.TimingConfig) time.Duration {
	d := millis(timing.HoldMs) + millis(timing.AnimInMs) + millis(timing.AnimOutMs)
	if d < MinCycle {
		return MinCycle
	}
	return d
}

func millis(v int) time.Duration {
	ms := min(max(int64(v), 0), models.MaxTimingMs)
	return time.Duration(ms) * time.Millisecond
}

// Index returns the index of the displayed item
func (e *Engine) Index() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Interval returns the time between successive swaps, zero before Start
func (e *Engine) Interval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interval
}

// scheduleTickLocked arms tick n at startedAt + n*interval so the cycle
// does not drift with callback latency. Due times accumulate one interval
// at a time; n*interval may not fit in a Duration.
func (e *Engine) scheduleTickLocked(n int) {
	e.nextDue = e.nextDue.Add(e.interval)
	delay := e.nextDue.Sub(e.clock.Now())
	if delay < 0 {
		delay = 0
	}
	e.tickTimer = e.clock.AfterFunc(delay, func() { e.onTick(n) })
}

// onTick ends the hold: start the exit animation and arm the swap
func (e *Engine) onTick(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return
	}

	// Finish a late swap first so cycles never interleave
	if e.state == Transitioning {
		if e.swapTimer != nil {
			e.swapTimer.Stop()
			e.swapTimer = nil
		}
		e.swapLocked()
	}

	e.cycle = n
	e.state = Transitioning
	e.renderer.AnimateOut(e.index)

	out := millis(e.timing.AnimOutMs)
	e.swapTimer = e.clock.AfterFunc(out, func() { e.onSwap(n) })
	e.scheduleTickLocked(n + 1)
}

func (e *Engine) onSwap(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// A stale callback from a swap that onTick already finished
	if e.stopped || e.cycle != n || e.state != Transitioning {
		return
	}
	e.swapTimer = nil
	e.swapLocked()
}

// swapLocked advances to the next item and starts its enter animation
func (e *Engine) swapLocked() {
	e.index = (e.index + 1) % len(e.items)
	e.paintLocked()
	e.renderer.AnimateIn(e.index)
	e.state = Displaying
}

// paintLocked pushes the current item's content and background.
// Items with an unknown platform are skipped.
func (e *Engine) paintLocked() {
	item := e.items[e.index]
	p, ok := e.registry.Lookup(item.Platform)
	if !ok {
		return
	}
	e.renderer.UpdateContent(e.index, item, p)
	e.renderer.UpdateBackground(e.index, item, p)
}
