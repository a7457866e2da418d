// Package puzzle holds listeners that react to the rod: the key that shows
// up on the magnet after enough casts, and the crate that pops the magnet out.
package puzzle

import (
	"fmt"

	"islandquest/internal/anim"
	"islandquest/internal/engine"
	"islandquest/internal/tether"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type RewardState int

const (
	Dormant RewardState = iota
	Attached
	Delivered
)

func (s RewardState) String() string {
	switch s {
	case Dormant:
		return "Dormant"
	case Attached:
		return "Attached"
	case Delivered:
		return "Delivered"
	}
	return "Unknown"
}

type KeyRevealConfig struct {
	Threshold   int        `json:"threshold"`
	LocalOffset rl.Vector3 `json:"localOffset"`
	LocalEuler  rl.Vector3 `json:"localEuler"`
	HopDuration float32    `json:"hopDuration"`
	HopHeight   float32    `json:"hopHeight"`
}

func DefaultKeyRevealConfig() KeyRevealConfig {
	return KeyRevealConfig{
		Threshold:   3,
		HopDuration: 0.7,
		HopHeight:   1.5,
	}
}

func (c KeyRevealConfig) Validate() error {
	if c.Threshold < 1 {
		return fmt.Errorf("reveal: threshold must be >= 1, got %d", c.Threshold)
	}
	if c.HopDuration < 0 {
		return fmt.Errorf("reveal: hopDuration must be >= 0, got %v", c.HopDuration)
	}
	return nil
}

// Notifier is the side of the rod a listener needs.
type Notifier interface {
	Events() (cast, reel *engine.Event)
	CurrentObject() *tether.Attachable
}

// KeyReveal counts completed casts. Once the threshold is reached the
// reward appears stuck to whatever is on the line, and after the next reel
// it hops off to the landing spot.
type KeyReveal struct {
	engine.BaseComponent
	cfg     KeyRevealConfig
	rod     Notifier
	reward  *tether.Attachable
	landing *engine.GameObject

	Revealed  engine.Event
	Delivered engine.Event

	casts     int
	triggered bool
	state     RewardState
	hop       *anim.Hop
	castID    engine.ListenerID
	reelID    engine.ListenerID
}

// NewKeyReveal subscribes to rod right away. The reward game object is
// deactivated until it is revealed.
func NewKeyReveal(cfg KeyRevealConfig, rod Notifier, reward *tether.Attachable, landing *engine.GameObject) *KeyReveal {
	k := &KeyReveal{cfg: cfg, rod: rod, reward: reward, landing: landing}
	if rod == nil {
		engine.Warnf("KeyReveal: no rod to listen to")
	} else {
		cast, reel := rod.Events()
		k.castID = cast.AddListener(k.onCastCompleted)
		k.reelID = reel.AddListener(k.onReelCompleted)
	}
	if reward != nil {
		if g := reward.GetGameObject(); g != nil {
			g.Active = false
		}
	}
	return k
}

// Close unsubscribes from the rod.
func (k *KeyReveal) Close() {
	if k.rod == nil {
		return
	}
	cast, reel := k.rod.Events()
	cast.RemoveListener(k.castID)
	reel.RemoveListener(k.reelID)
	k.rod = nil
}

func (k *KeyReveal) State() RewardState { return k.state }

func (k *KeyReveal) Casts() int { return k.casts }

func (k *KeyReveal) Reward() *tether.Attachable { return k.reward }

// Hopping reports whether the reward is in the air toward the landing spot.
func (k *KeyReveal) Hopping() bool { return k.hop != nil }

func (k *KeyReveal) onCastCompleted() {
	k.casts++
	if k.triggered || k.state != Dormant || k.casts < k.cfg.Threshold {
		return
	}
	// One attempt only, even if nothing is on the line.
	k.triggered = true
	if k.reward == nil {
		engine.Warnf("KeyReveal: no reward configured")
		return
	}
	magnet := k.rod.CurrentObject()
	if magnet == nil || magnet.GetGameObject() == nil {
		engine.Warnf("KeyReveal: magnet not available when trying to attach key")
		return
	}

	if err := k.reward.Claim(tether.OwnerReveal, tether.Docked); err != nil {
		engine.Warnf("KeyReveal: %v", err)
		return
	}
	if err := k.reward.Reparent(tether.OwnerReveal, magnet.GetGameObject(), k.cfg.LocalOffset, k.cfg.LocalEuler); err != nil {
		engine.Warnf("KeyReveal: %v", err)
		_ = k.reward.Release(tether.OwnerReveal)
		return
	}
	if g := k.reward.GetGameObject(); g != nil {
		g.Active = true
	}
	k.state = Attached
	engine.Logf("KeyReveal: key attached after %d casts", k.casts)
	k.Revealed.Invoke()
}

func (k *KeyReveal) onReelCompleted() {
	if k.state != Attached || k.hop != nil {
		return
	}
	if k.landing == nil {
		engine.Warnf("KeyReveal: no landing spot")
		return
	}
	if err := k.reward.Unparent(tether.OwnerReveal); err != nil {
		engine.Warnf("KeyReveal: %v", err)
		return
	}
	if err := k.reward.SetMode(tether.OwnerReveal, tether.InFlight); err != nil {
		engine.Warnf("KeyReveal: %v", err)
		return
	}
	k.hop = anim.NewHop(k.reward.Position(), k.landing.WorldPosition(), k.cfg.HopDuration, k.cfg.HopHeight)
}

func (k *KeyReveal) Update(deltaTime float32) {
	if k.hop == nil {
		return
	}
	pos := k.hop.Step(deltaTime)
	if err := k.reward.SetPosition(tether.OwnerReveal, pos); err != nil {
		engine.Warnf("KeyReveal: %v", err)
		k.hop = nil
		return
	}
	if !k.hop.Done() {
		return
	}

	k.hop = nil
	if k.landing != nil {
		_ = k.reward.SetRotation(tether.OwnerReveal, k.landing.WorldRotation())
	}
	if err := k.reward.Release(tether.OwnerReveal); err != nil {
		engine.Warnf("KeyReveal: %v", err)
	}
	k.state = Delivered
	engine.Logf("KeyReveal: key delivered")
	k.Delivered.Invoke()
}
