// Package sim assembles the fishing scene headlessly and drives it with a
// scripted sequence of player actions.
package sim

import (
	"fmt"

	"islandquest/internal/components"
	"islandquest/internal/config"
	"islandquest/internal/engine"
	"islandquest/internal/pickup"
	"islandquest/internal/puzzle"
	"islandquest/internal/rod"
	"islandquest/internal/telemetry"
	"islandquest/internal/tether"
	"islandquest/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Sim struct {
	cfg   config.Config
	World *world.World

	Player      *engine.GameObject
	AttachPoint *engine.GameObject
	Controller  *components.FPSController
	Holder      *pickup.Holder
	Attachment  *tether.Attachment
	Rod         *rod.Rod
	Popup       *puzzle.Popup
	Reveal      *puzzle.KeyReveal
	Magnet      *tether.Attachable
	Key         *tether.Attachable

	script []Action
	next   int
}

// Build loads the scene (the config's scene file, or the built-in island)
// and wires every gameplay component to its collaborators.
func Build(cfg config.Config) (*Sim, error) {
	w := world.New()
	w.Physics.Gravity = rl.Vector3{Y: cfg.Sim.Gravity}
	w.Physics.FloorY = cfg.Sim.FloorY

	if cfg.Sim.Scene != "" {
		if err := w.LoadScene(cfg.Sim.Scene); err != nil {
			return nil, err
		}
	} else if err := w.Instantiate(world.DefaultScene()); err != nil {
		return nil, err
	}

	objs := map[string]*engine.GameObject{}
	for _, name := range []string{"Player", "HoldPoint", "Rod", "AttachPoint", "Crate", "PopupPoint", "Magnet", "Key", "KeyLanding"} {
		g := w.Find(name)
		if g == nil {
			return nil, fmt.Errorf("sim: scene has no %s", name)
		}
		objs[name] = g
	}

	s := &Sim{cfg: cfg, World: w, Player: objs["Player"], AttachPoint: objs["AttachPoint"]}

	s.Magnet = engine.GetComponent[*tether.Attachable](objs["Magnet"])
	s.Key = engine.GetComponent[*tether.Attachable](objs["Key"])
	if s.Magnet == nil || s.Key == nil {
		return nil, fmt.Errorf("sim: Magnet and Key need Attachable components")
	}
	s.Controller = engine.GetComponent[*components.FPSController](s.Player)
	if s.Controller == nil {
		s.Controller = components.NewFPSController()
		s.Player.AddComponent(s.Controller)
	}

	s.Holder = pickup.NewHolder(cfg.Holder, objs["HoldPoint"], s.Controller)
	s.Player.AddComponent(s.Holder)

	s.Attachment = tether.NewAttachment(cfg.Attachment, s.AttachPoint, w.Scene)
	s.Rod = rod.New(cfg.Rod, s.AttachPoint, s.Attachment, s.Controller)
	objs["Rod"].AddComponent(s.Attachment)
	objs["Rod"].AddComponent(s.Rod)

	s.Popup = puzzle.NewPopup(cfg.Popup, s.Magnet, objs["PopupPoint"])
	objs["Crate"].AddComponent(s.Popup)

	s.Reveal = puzzle.NewKeyReveal(cfg.Reveal, s.Rod, s.Key, objs["KeyLanding"])
	objs["KeyLanding"].AddComponent(s.Reveal)

	w.Scene.Start()
	return s, nil
}

func (s *Sim) Config() config.Config { return s.cfg }

// Tick is the number of completed steps.
func (s *Sim) Tick() uint64 { return s.World.Scene.Tick() }

// SetScript replaces the scripted actions. They must be sorted by tick.
func (s *Sim) SetScript(actions []Action) {
	s.script = actions
	s.next = 0
}

// Step fires the actions due this tick and advances the world by one tick.
func (s *Sim) Step() {
	tick := s.Tick()
	for s.next < len(s.script) && s.script[s.next].Tick <= tick {
		a := s.script[s.next]
		s.next++
		if !a.Do(s) {
			engine.Logf("Sim: tick %d: %s had no effect", tick, a.Name)
		}
	}
	s.World.Update(s.cfg.DeltaTime())
}

// Run steps n ticks, handing each snapshot to publish if it is not nil.
func (s *Sim) Run(n int, publish func(telemetry.Snapshot)) {
	for i := 0; i < n; i++ {
		s.Step()
		if publish != nil {
			publish(s.Snapshot())
		}
	}
}

// Close detaches listeners that outlive the scene.
func (s *Sim) Close() {
	s.Reveal.Close()
}

func toVec(v rl.Vector3) telemetry.Vec3 {
	return telemetry.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

func (s *Sim) Snapshot() telemetry.Snapshot {
	snap := telemetry.Snapshot{
		Tick:        s.Tick(),
		RodState:    s.Rod.State().String(),
		Progress:    s.Rod.Progress(),
		Magnet:      toVec(s.Magnet.Position()),
		MagnetMode:  s.Magnet.Mode().String(),
		MagnetOwner: s.Magnet.Owner().String(),
		Reward:      toVec(s.Key.Position()),
		RewardState: s.Reveal.State().String(),
		Casts:       s.Rod.Casts(),
	}
	for _, p := range s.Rod.LinePoints() {
		snap.Line = append(snap.Line, toVec(p))
	}
	return snap
}
