package puzzle

import (
	"fmt"

	"islandquest/internal/anim"
	"islandquest/internal/engine"
	"islandquest/internal/tether"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type PopupConfig struct {
	ActivationRange      float32 `json:"activationRange"`
	HopHeight            float32 `json:"hopHeight"`
	HopDuration          float32 `json:"hopDuration"`
	SpinDegreesPerSecond float32 `json:"spinDegreesPerSecond"`
}

func DefaultPopupConfig() PopupConfig {
	return PopupConfig{
		ActivationRange:      3,
		HopHeight:            1.5,
		HopDuration:          1,
		SpinDegreesPerSecond: 360,
	}
}

func (c PopupConfig) Validate() error {
	if c.ActivationRange < 0 {
		return fmt.Errorf("popup: activationRange must be >= 0, got %v", c.ActivationRange)
	}
	if c.HopDuration < 0 {
		return fmt.Errorf("popup: hopDuration must be >= 0, got %v", c.HopDuration)
	}
	return nil
}

// Popup sits on the crate. Activated once from close enough, it throws the
// magnet up to the popup point, spinning, and leaves it there for pickup.
type Popup struct {
	engine.BaseComponent
	cfg    PopupConfig
	magnet *tether.Attachable
	point  *engine.GameObject

	Popped engine.Event

	used bool
	hop  *anim.Hop
}

func NewPopup(cfg PopupConfig, magnet *tether.Attachable, point *engine.GameObject) *Popup {
	if magnet == nil || point == nil {
		engine.Warnf("Popup: missing magnet or popup point")
	}
	return &Popup{cfg: cfg, magnet: magnet, point: point}
}

func (p *Popup) Used() bool { return p.used }

func (p *Popup) Animating() bool { return p.hop != nil }

// Activate starts the pop if playerPos is within range. It works once.
func (p *Popup) Activate(playerPos rl.Vector3) bool {
	if p.used || p.magnet == nil || p.point == nil {
		return false
	}
	g := p.GetGameObject()
	if g == nil {
		engine.Warnf("Popup: not attached to a game object")
		return false
	}
	if rl.Vector3Distance(playerPos, g.WorldPosition()) > p.cfg.ActivationRange {
		return false
	}
	if err := p.magnet.Claim(tether.OwnerPopup, tether.InFlight); err != nil {
		engine.Warnf("Popup: %v", err)
		return false
	}
	p.used = true
	p.hop = anim.NewSineHop(p.magnet.Position(), p.point.WorldPosition(), p.cfg.HopDuration, p.cfg.HopHeight)
	return true
}

func (p *Popup) Update(deltaTime float32) {
	if p.hop == nil {
		return
	}
	pos := p.hop.Step(deltaTime)
	if err := p.magnet.SetPosition(tether.OwnerPopup, pos); err != nil {
		engine.Warnf("Popup: %v", err)
		p.hop = nil
		return
	}
	if mg := p.magnet.GetGameObject(); mg != nil {
		rot := mg.WorldRotation()
		rot.Y += p.cfg.SpinDegreesPerSecond * deltaTime
		_ = p.magnet.SetRotation(tether.OwnerPopup, rot)
	}
	if !p.hop.Done() {
		return
	}

	p.hop = nil
	if err := p.magnet.Release(tether.OwnerPopup); err != nil {
		engine.Warnf("Popup: %v", err)
	}
	engine.Logf("Popup: magnet is ready to pick up")
	p.Popped.Invoke()
}
