package anim

import rl "github.com/gen2brain/raylib-go/raylib"

type HopState int

const (
	HopAnimating HopState = iota
	HopDone
)

func (s HopState) String() string {
	switch s {
	case HopAnimating:
		return "Animating"
	case HopDone:
		return "Done"
	}
	return "Unknown"
}

// Hop moves a point from start to end over a fixed duration with a vertical
// lift. It is stepped once per tick by its owner and ends exactly at end.
type Hop struct {
	clock  Tween
	start  rl.Vector3
	end    rl.Vector3
	height float32
	curve  func(start, end rl.Vector3, height, u float32) rl.Vector3
	state  HopState
}

// NewHop uses the parabolic arc.
func NewHop(start, end rl.Vector3, duration, height float32) *Hop {
	return &Hop{clock: NewTween(duration), start: start, end: end, height: height, curve: Arc}
}

// NewSineHop uses the half-sine arc.
func NewSineHop(start, end rl.Vector3, duration, height float32) *Hop {
	return &Hop{clock: NewTween(duration), start: start, end: end, height: height, curve: SineArc}
}

// Step advances the hop and returns the position to write this tick.
func (h *Hop) Step(deltaTime float32) rl.Vector3 {
	if h.state == HopDone {
		return h.end
	}
	if h.clock.Cancelled() {
		return h.curve(h.start, h.end, h.height, h.clock.Progress())
	}
	u := h.clock.Step(deltaTime)
	if h.clock.Done() {
		h.state = HopDone
		return h.end
	}
	return h.curve(h.start, h.end, h.height, u)
}

func (h *Hop) State() HopState { return h.state }

func (h *Hop) Done() bool { return h.state == HopDone }

func (h *Hop) Progress() float32 { return h.clock.Progress() }

func (h *Hop) End() rl.Vector3 { return h.end }

// Cancel stops the hop where it is; it never reaches HopDone.
func (h *Hop) Cancel() { h.clock.Cancel() }

func (h *Hop) Cancelled() bool { return h.clock.Cancelled() }
