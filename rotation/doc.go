// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package rotation drives the overlay's display cycle.

# Cycle

An Engine shows each item for hold_ms, runs the exit animation for
anim_out_ms, swaps to the next item and runs its enter animation:

	e, err := rotation.New(cfg, platform.Default(), renderer)
	err = e.Start()
	defer e.Stop()

The interval between swaps is hold + in + out, fixed when Start is called
and never shorter than MinCycle. Ticks are scheduled against the start time,
so the cycle does not drift.

# States

	Displaying    // item visible, waiting for the next tick
	Transitioning // exit animation running, swap pending

The index advances at swap time. A single item still cycles through the
exit and enter animations.

# Rendering

Renderer receives content, background and animation calls. Items whose
platform is not in the registry keep their slot in the rotation but produce
no content or background update.

# Testing

Pass WithClock(clock.NewManual(t0)) and drive time with Advance.
*/
package rotation
