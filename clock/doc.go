// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package clock abstracts timers so time-driven code can run on virtual time
// in tests. Real wraps time.AfterFunc; Manual fires callbacks only when
// Advance is called.
package clock
