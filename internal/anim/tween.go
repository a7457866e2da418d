// Package anim holds the tick-stepped motion primitives used by gameplay
// components: a clamped progress clock and the curves driven by it.
package anim

// Epsilon is the smallest phase duration; shorter ones are floored to it so
// progress never divides by zero.
const Epsilon = 1e-4

// snap absorbs float accumulation error so a phase of D seconds stepped at
// h seconds per tick finishes within ceil(D/h) ticks.
const snap = 1e-5

// Tween is a progress clock advanced once per tick. Progress is
// clamp01(elapsed/duration) and never decreases.
type Tween struct {
	duration  float64
	elapsed   float64
	u         float32
	cancelled bool
}

func NewTween(duration float32) Tween {
	d := float64(duration)
	if d < Epsilon {
		d = Epsilon
	}
	return Tween{duration: d}
}

// Step advances the clock by deltaTime and returns the new progress.
// Cancelled or finished tweens do not advance.
func (t *Tween) Step(deltaTime float32) float32 {
	if t.cancelled || t.u >= 1 {
		return t.u
	}
	if deltaTime > 0 {
		t.elapsed += float64(deltaTime)
	}
	u := t.elapsed / t.duration
	if u >= 1-snap {
		u = 1
	}
	t.u = float32(u)
	return t.u
}

func (t *Tween) Progress() float32 { return t.u }

func (t *Tween) Done() bool { return t.u >= 1 }

func (t *Tween) Elapsed() float32 { return float32(t.elapsed) }

func (t *Tween) Duration() float32 { return float32(t.duration) }

// Cancel freezes the tween at its current progress.
func (t *Tween) Cancel() { t.cancelled = true }

func (t *Tween) Cancelled() bool { return t.cancelled }
