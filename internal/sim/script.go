package sim

import (
	"islandquest/internal/engine"
	"islandquest/internal/pickup"
)

// Action is one scripted player input, fired at the start of Tick.
type Action struct {
	Tick uint64
	Name string
	Do   func(s *Sim) bool
}

func PopCrate(s *Sim) bool {
	return s.Popup.Activate(s.Player.WorldPosition())
}

func PickUp(s *Sim) bool {
	return s.Holder.TryPickup(pickup.Candidates(s.World.Scene))
}

// AttachHeld puts whatever the player holds on the rod tip.
func AttachHeld(s *Sim) bool {
	if err := s.Attachment.TryAttach(s.Holder.Held()); err != nil {
		engine.Warnf("Sim: attach: %v", err)
		return false
	}
	return true
}

func Activate(s *Sim) bool {
	return s.Rod.RequestActivate()
}

// DefaultScript pops the magnet out of the crate, picks it up, hangs it on
// the rod and then casts and reels cycles times, a second apart.
func DefaultScript(cycles int) []Action {
	actions := []Action{
		{Tick: 1, Name: "pop crate", Do: PopCrate},
		{Tick: 90, Name: "pick up", Do: PickUp},
		{Tick: 100, Name: "attach", Do: AttachHeld},
	}
	for i := 0; i < cycles; i++ {
		start := uint64(120 + i*120)
		actions = append(actions,
			Action{Tick: start, Name: "cast", Do: Activate},
			Action{Tick: start + 60, Name: "reel", Do: Activate},
		)
	}
	return actions
}

// ScriptTicks is how long DefaultScript needs to play out, including the
// key's hop after the last reel.
func ScriptTicks(cycles int) int {
	return 120 + cycles*120 + 60
}
