// Package pickup implements the player's hand: picking up tagged objects in
// front of the viewer and carrying them at a hold point.
package pickup

import (
	"fmt"
	"math"

	"islandquest/internal/engine"
	"islandquest/internal/tether"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Tag marks objects the holder may pick up.
const Tag = "Pickup"

type HolderConfig struct {
	Range float32 `json:"range"`
	Angle float32 `json:"angle"` // degrees either side of the look direction
}

func DefaultHolderConfig() HolderConfig {
	return HolderConfig{Range: 3, Angle: 30}
}

func (c HolderConfig) Validate() error {
	if c.Range < 0 {
		return fmt.Errorf("holder: range must be >= 0, got %v", c.Range)
	}
	if c.Angle < 0 || c.Angle > 180 {
		return fmt.Errorf("holder: angle must be within [0, 180], got %v", c.Angle)
	}
	return nil
}

// Holder lives on the player's eye object. While it owns an object it
// writes it to the hold point every tick; the object stays Free so other
// components can claim it straight out of the hand.
type Holder struct {
	engine.BaseComponent
	cfg       HolderConfig
	holdPoint *engine.GameObject
	viewer    engine.LookProvider

	held     *tether.Attachable
	PickedUp engine.EventWithArg[*tether.Attachable]
	Dropped  engine.EventWithArg[*tether.Attachable]
}

func NewHolder(cfg HolderConfig, holdPoint *engine.GameObject, viewer engine.LookProvider) *Holder {
	return &Holder{cfg: cfg, holdPoint: holdPoint, viewer: viewer}
}

func (h *Holder) Held() *tether.Attachable { return h.held }

// Candidates collects the attachables tagged for pickup in scene.
func Candidates(scene *engine.Scene) []*tether.Attachable {
	if scene == nil {
		return nil
	}
	var out []*tether.Attachable
	for _, g := range scene.FindByTag(Tag) {
		if !g.Active {
			continue
		}
		if a := engine.GetComponent[*tether.Attachable](g); a != nil {
			out = append(out, a)
		}
	}
	return out
}

// TryPickup grabs the candidate closest to the centre of view within range
// and angle. Returns false with nothing held when no candidate qualifies.
func (h *Holder) TryPickup(candidates []*tether.Attachable) bool {
	if h.held != nil {
		return false
	}
	g := h.GetGameObject()
	if g == nil || h.holdPoint == nil || h.viewer == nil {
		engine.Warnf("Holder: missing eye, hold point or viewer")
		return false
	}

	eye := g.WorldPosition()
	x, y, z := h.viewer.GetLookDirection()
	look := rl.Vector3Normalize(rl.Vector3{X: x, Y: y, Z: z})
	bestDot := float32(math.Cos(float64(h.cfg.Angle) * math.Pi / 180))

	var best *tether.Attachable
	for _, c := range candidates {
		if c == nil || c.Mode() != tether.Free {
			continue
		}
		to := rl.Vector3Subtract(c.Position(), eye)
		if rl.Vector3Length(to) > h.cfg.Range {
			continue
		}
		dot := rl.Vector3DotProduct(look, rl.Vector3Normalize(to))
		if dot > bestDot {
			bestDot = dot
			best = c
		}
	}
	if best == nil {
		return false
	}

	if err := best.Claim(tether.OwnerHolder, tether.Free); err != nil {
		engine.Warnf("Holder: %v", err)
		return false
	}
	best.Body().ZeroVelocity()
	h.held = best
	h.carry()
	h.PickedUp.Invoke(best)
	return true
}

// Drop hands the held object back to physics where it is.
func (h *Holder) Drop() bool {
	if h.held == nil {
		return false
	}
	obj := h.held
	h.held = nil
	if err := obj.Release(tether.OwnerHolder); err != nil {
		engine.Warnf("Holder: %v", err)
		return false
	}
	h.Dropped.Invoke(obj)
	return true
}

func (h *Holder) Update(deltaTime float32) {
	if h.held == nil {
		return
	}
	if h.held.Owner() != tether.OwnerHolder {
		engine.Logf("Holder: item taken by %s", h.held.Owner())
		h.held = nil
		return
	}
	h.carry()
}

func (h *Holder) carry() {
	if h.holdPoint == nil {
		return
	}
	if err := h.held.SetPosition(tether.OwnerHolder, h.holdPoint.WorldPosition()); err != nil {
		engine.Warnf("Holder: %v", err)
		return
	}
	if err := h.held.SetRotation(tether.OwnerHolder, h.holdPoint.WorldRotation()); err != nil {
		engine.Warnf("Holder: %v", err)
	}
}
