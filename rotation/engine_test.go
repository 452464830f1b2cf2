// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rotation

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/follow-rotator/clock"
	"github.com/danielhkuo/follow-rotator/models"
	"github.com/danielhkuo/follow-rotator/platform"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type event struct {
	kind  string
	index int
	at    time.Duration
}

func (e event) String() string { return fmt.Sprintf("%s(%d)@%v", e.kind, e.index, e.at) }

// recorder logs every renderer call with its virtual time offset
type recorder struct {
	mu     sync.Mutex
	clock  clock.Clock
	events []event
}

func (r *recorder) add(kind string, index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{kind, index, r.clock.Now().Sub(epoch)})
}

func (r *recorder) UpdateContent(index int, _ models.RotationItem, _ platform.Platform) {
	r.add("content", index)
}

func (r *recorder) UpdateBackground(index int, _ models.RotationItem, _ platform.Platform) {
	r.add("background", index)
}

func (r *recorder) AnimateOut(index int) { r.add("out", index) }
func (r *recorder) AnimateIn(index int)  { r.add("in", index) }

func (r *recorder) ofKind(kind string) []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event
	for _, e := range r.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func threeItems() models.Configuration {
	return models.Configuration{
		Items: []models.RotationItem{
			{Platform: platform.TikTok, Text: "@a"},
			{Platform: platform.Discord, Text: "discord.gg/b"},
			{Platform: platform.YouTube, Text: "@c"},
		},
		Timing: models.TimingConfig{HoldMs: 9000, AnimInMs: 1000, AnimOutMs: 1000},
	}
}

func newTestEngine(t *testing.T, cfg models.Configuration) (*Engine, *clock.Manual, *recorder) {
	t.Helper()
	m := clock.NewManual(epoch)
	rec := &recorder{clock: m}
	e, err := New(cfg, platform.Default(), rec, WithClock(m))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e, m, rec
}

func TestNew_EmptyConfiguration(t *testing.T) {
	_, err := New(models.Configuration{Timing: models.DefaultTiming()}, platform.Default(), &recorder{})
	if !errors.Is(err, ErrEmptyConfiguration) {
		t.Errorf("expected ErrEmptyConfiguration, got %v", err)
	}
}

func TestStart_PaintsFirstItemWithoutExit(t *testing.T) {
	e, _, rec := newTestEngine(t, threeItems())
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}

	want := []string{"content(0)@0s", "background(0)@0s", "in(0)@0s"}
	if len(rec.events) != len(want) {
		t.Fatalf("expected %v, got %v", want, rec.events)
	}
	for i, w := range want {
		if rec.events[i].String() != w {
			t.Errorf("event %d: expected %s, got %s", i, w, rec.events[i])
		}
	}
	if e.State() != Displaying || e.Index() != 0 {
		t.Errorf("expected displaying item 0, got %s item %d", e.State(), e.Index())
	}
	if e.Interval() != 11*time.Second {
		t.Errorf("expected 11s interval, got %v", e.Interval())
	}
}

func TestRotation_CycleTiming(t *testing.T) {
	e, m, rec := newTestEngine(t, threeItems())
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}

	m.Advance(11*time.Second - time.Millisecond)
	if e.State() != Displaying {
		t.Fatal("should still be holding item 0")
	}

	m.Advance(time.Millisecond)
	if e.State() != Transitioning {
		t.Fatal("hold elapsed: should be transitioning")
	}
	if e.Index() != 0 {
		t.Errorf("index should not change before the swap, got %d", e.Index())
	}

	m.Advance(time.Second)
	if e.State() != Displaying || e.Index() != 1 {
		t.Fatalf("expected displaying item 1, got %s item %d", e.State(), e.Index())
	}

	// Run several more full cycles
	m.Advance(5 * 11 * time.Second)

	swaps := rec.ofKind("content")[1:] // drop the initial paint
	wantIndex := []int{1, 2, 0, 1, 2, 0}
	if len(swaps) != len(wantIndex) {
		t.Fatalf("expected %d swaps, got %v", len(wantIndex), swaps)
	}
	for i, s := range swaps {
		if s.index != wantIndex[i] {
			t.Errorf("swap %d: expected index %d, got %d", i, wantIndex[i], s.index)
		}
		wantAt := 12*time.Second + time.Duration(i)*11*time.Second
		if s.at != wantAt {
			t.Errorf("swap %d: expected at %v, got %v", i, wantAt, s.at)
		}
		if i > 0 && s.at-swaps[i-1].at != 11*time.Second {
			t.Errorf("swap %d: expected 11s since previous swap, got %v", i, s.at-swaps[i-1].at)
		}
	}
}

func TestRotation_ExitAlwaysPrecedesSwap(t *testing.T) {
	e, m, rec := newTestEngine(t, threeItems())
	e.Start()
	m.Advance(40 * time.Second)

	var seq []string
	for _, ev := range rec.events[3:] {
		seq = append(seq, ev.kind)
	}
	pattern := []string{"out", "content", "background", "in"}
	if len(seq)%len(pattern) != 0 {
		t.Fatalf("incomplete cycle in %v", seq)
	}
	for i, kind := range seq {
		if kind != pattern[i%len(pattern)] {
			t.Fatalf("event %d: expected %s, got %s (%v)", i, pattern[i%len(pattern)], kind, rec.events)
		}
	}
}

func TestRotation_SingleItemStillCycles(t *testing.T) {
	cfg := models.Configuration{
		Items:  []models.RotationItem{{Platform: platform.Twitch, Text: "twitch.tv/me"}},
		Timing: models.TimingConfig{HoldMs: 1000, AnimInMs: 200, AnimOutMs: 300},
	}
	e, m, rec := newTestEngine(t, cfg)
	e.Start()

	// Three ticks at 1.5s intervals plus the last exit animation
	m.Advance(3*1500*time.Millisecond + 300*time.Millisecond)

	outs := rec.ofKind("out")
	ins := rec.ofKind("in")
	if len(outs) != 3 {
		t.Errorf("expected 3 exit animations, got %d", len(outs))
	}
	if len(ins) != 4 { // initial paint plus one per cycle
		t.Errorf("expected 4 enter animations, got %d", len(ins))
	}
	for _, ev := range ins {
		if ev.index != 0 {
			t.Errorf("single item should always be index 0, got %d", ev.index)
		}
	}
}

func TestRotation_UnknownPlatformSkipsVisualUpdate(t *testing.T) {
	cfg := models.Configuration{
		Items: []models.RotationItem{
			{Platform: platform.TikTok, Text: "@a"},
			{Platform: "myspace", Text: "myspace.com/tom"},
			{Platform: platform.X, Text: "@c"},
		},
		Timing: models.TimingConfig{HoldMs: 1000, AnimInMs: 0, AnimOutMs: 0},
	}
	e, m, rec := newTestEngine(t, cfg)
	e.Start()

	m.Advance(time.Second)
	if e.Index() != 1 {
		t.Fatalf("index should advance to the unknown item, got %d", e.Index())
	}
	if got := len(rec.ofKind("content")); got != 1 {
		t.Errorf("unknown platform should not update content, got %d updates", got)
	}
	if got := len(rec.ofKind("background")); got != 1 {
		t.Errorf("unknown platform should not update background, got %d updates", got)
	}

	m.Advance(time.Second)
	if e.Index() != 2 {
		t.Fatalf("rotation should continue past the unknown item, got %d", e.Index())
	}
	content := rec.ofKind("content")
	if len(content) != 2 || content[1].index != 2 {
		t.Errorf("expected content update for item 2, got %v", content)
	}
}

func TestRotation_UnknownFirstItem(t *testing.T) {
	cfg := models.Configuration{
		Items:  []models.RotationItem{{Platform: "myspace", Text: "tom"}, {Platform: platform.X, Text: "@x"}},
		Timing: models.TimingConfig{HoldMs: 500, AnimInMs: 0, AnimOutMs: 0},
	}
	e, m, rec := newTestEngine(t, cfg)
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	if len(rec.ofKind("content")) != 0 {
		t.Error("unknown first item should not be painted")
	}

	m.Advance(500 * time.Millisecond)
	if e.Index() != 1 || len(rec.ofKind("content")) != 1 {
		t.Errorf("expected item 1 painted, got index %d and %v", e.Index(), rec.events)
	}
}

func TestRotation_IntervalFixedAtStart(t *testing.T) {
	cfg := threeItems()
	e, m, rec := newTestEngine(t, cfg)
	e.Start()

	// The engine owns a copy; edits to the caller's config are invisible
	cfg.Timing.HoldMs = 1
	cfg.Items[1].Text = "changed"

	m.Advance(12 * time.Second)
	if len(rec.ofKind("content")) != 2 {
		t.Fatalf("expected exactly one swap after 12s, got %v", rec.events)
	}
	if e.Interval() != 11*time.Second {
		t.Errorf("interval changed: %v", e.Interval())
	}
}

func TestRotation_ZeroTimingUsesMinCycle(t *testing.T) {
	cfg := models.Configuration{
		Items:  []models.RotationItem{{Platform: platform.TikTok, Text: "@a"}, {Platform: platform.X, Text: "@b"}},
		Timing: models.TimingConfig{},
	}
	e, m, rec := newTestEngine(t, cfg)
	e.Start()

	if e.Interval() != MinCycle {
		t.Fatalf("expected MinCycle, got %v", e.Interval())
	}
	m.Advance(10 * MinCycle)
	if got := len(rec.ofKind("out")); got != 10 {
		t.Errorf("expected 10 cycles, got %d", got)
	}
	if got := len(rec.ofKind("in")); got != 11 {
		t.Errorf("expected 11 enter animations, got %d", got)
	}
}

func TestRotation_OversizedTimingStillHolds(t *testing.T) {
	tests := []struct {
		name   string
		timing models.TimingConfig
	}{
		{"hold beyond limit", models.TimingConfig{HoldMs: 10_000_000_000_000, AnimInMs: 1000, AnimOutMs: 1000}},
		{"every field at max int", models.TimingConfig{HoldMs: math.MaxInt, AnimInMs: math.MaxInt, AnimOutMs: math.MaxInt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := threeItems()
			cfg.Timing = tt.timing
			e, m, rec := newTestEngine(t, cfg)
			if err := e.Start(); err != nil {
				t.Fatal(err)
			}
			defer e.Stop()

			if e.Interval() <= time.Duration(models.MaxTimingMs)*time.Millisecond {
				t.Fatalf("interval %v shorter than the hold", e.Interval())
			}
			m.Advance(10 * time.Second)
			if got := len(rec.ofKind("content")); got != 1 {
				t.Errorf("expected only the first paint, got %d content events", got)
			}
			if got := len(rec.ofKind("out")); got != 0 {
				t.Errorf("expected no exit animation, got %d", got)
			}
		})
	}
}

func TestIntervalFor(t *testing.T) {
	tests := []struct {
		name   string
		timing models.TimingConfig
		want   time.Duration
	}{
		{"defaults", models.DefaultTiming(), 11 * time.Second},
		{"floored", models.TimingConfig{HoldMs: 10, AnimInMs: 10, AnimOutMs: 10}, MinCycle},
		{"negative counts as zero", models.TimingConfig{HoldMs: -5000, AnimInMs: 200}, 200 * time.Millisecond},
		{"saturated", models.TimingConfig{HoldMs: math.MaxInt, AnimInMs: math.MaxInt, AnimOutMs: math.MaxInt}, 3 * time.Duration(models.MaxTimingMs) * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntervalFor(tt.timing); got != tt.want {
				t.Errorf("IntervalFor(%+v) = %v, want %v", tt.timing, got, tt.want)
			}
		})
	}
}

func TestRotation_LongExitStillOrdered(t *testing.T) {
	// Exit takes the whole cycle: swap and next tick are due together
	cfg := models.Configuration{
		Items:  []models.RotationItem{{Platform: platform.TikTok, Text: "@a"}, {Platform: platform.X, Text: "@b"}},
		Timing: models.TimingConfig{HoldMs: 0, AnimInMs: 0, AnimOutMs: 1000},
	}
	e, m, rec := newTestEngine(t, cfg)
	e.Start()
	m.Advance(3 * time.Second)

	var seq []string
	for _, ev := range rec.events {
		seq = append(seq, ev.String())
	}

	// Every out must be followed by that cycle's swap before the next out
	outs := 0
	for i, ev := range rec.events {
		if ev.kind != "out" {
			continue
		}
		outs++
		if i+1 < len(rec.events) && rec.events[i+1].kind == "out" {
			t.Fatalf("two exits without a swap between them: %v", seq)
		}
	}
	if outs != 3 {
		t.Errorf("expected 3 exits, got %d (%v)", outs, seq)
	}
	if e.Index() != 0 {
		t.Errorf("expected index 0 after 2 swaps plus one pending, got %d", e.Index())
	}
}

func TestStop_NoFurtherCallbacks(t *testing.T) {
	e, m, rec := newTestEngine(t, threeItems())
	e.Start()

	m.Advance(11500 * time.Millisecond) // mid-transition
	before := len(rec.events)

	e.Stop()
	m.Advance(time.Hour)

	if len(rec.events) != before {
		t.Errorf("callbacks fired after Stop: %v", rec.events[before:])
	}
	if m.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", m.Pending())
	}
}

func TestStart_Errors(t *testing.T) {
	e, _, _ := newTestEngine(t, threeItems())
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	e.Stop()
	if err := e.Start(); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}

func TestStop_RealClock(t *testing.T) {
	cfg := models.Configuration{
		Items:  []models.RotationItem{{Platform: platform.TikTok, Text: "@a"}, {Platform: platform.X, Text: "@b"}},
		Timing: models.TimingConfig{HoldMs: 0, AnimInMs: 0, AnimOutMs: 0},
	}
	rec := &recorder{clock: clock.Real{}}
	e, err := New(cfg, platform.Default(), rec)
	if err != nil {
		t.Fatal(err)
	}
	e.Start()
	time.Sleep(3 * MinCycle)
	e.Stop()

	rec.mu.Lock()
	before := len(rec.events)
	rec.mu.Unlock()
	if before < 3 {
		t.Fatalf("expected the engine to run, got %d events", before)
	}

	time.Sleep(3 * MinCycle)
	rec.mu.Lock()
	after := len(rec.events)
	rec.mu.Unlock()
	if after != before {
		t.Errorf("callbacks fired after Stop: %d -> %d", before, after)
	}
}
