// Package rod implements the cast/reel state machine that throws the docked
// magnet out along an arc and pulls it back to the attach point.
package rod

import (
	"islandquest/internal/anim"
	"islandquest/internal/engine"
	"islandquest/internal/tether"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type State int

const (
	Idle State = iota
	CastingOut
	Out
	ReelingIn
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case CastingOut:
		return "CastingOut"
	case Out:
		return "Out"
	case ReelingIn:
		return "ReelingIn"
	}
	return "Unknown"
}

// Rod owns the held object's transform for the whole time it is not Idle.
// CastCompleted fires once per cast, when the object reaches the end of the
// throw; ReelCompleted fires once it is docked again.
type Rod struct {
	engine.BaseComponent
	cfg         Config
	attachPoint *engine.GameObject
	attachment  *tether.Attachment
	viewer      engine.LookProvider

	CastCompleted engine.Event
	ReelCompleted engine.Event

	state State
	held  *tether.Attachable
	phase anim.Tween
	start rl.Vector3
	end   rl.Vector3
	casts int
}

// New creates a rod. viewer may be nil, in which case CameraBlend is ignored.
func New(cfg Config, attachPoint *engine.GameObject, attachment *tether.Attachment, viewer engine.LookProvider) *Rod {
	return &Rod{
		cfg:         cfg,
		attachPoint: attachPoint,
		attachment:  attachment,
		viewer:      viewer,
	}
}

func (r *Rod) State() State { return r.state }

func (r *Rod) Config() Config { return r.cfg }

// CurrentObject is the object out on the line, or nil while Idle.
func (r *Rod) CurrentObject() *tether.Attachable { return r.held }

// Events exposes both notifications for listeners that only know the rod
// through an interface.
func (r *Rod) Events() (cast, reel *engine.Event) {
	return &r.CastCompleted, &r.ReelCompleted
}

// Casts is the number of completed casts.
func (r *Rod) Casts() int { return r.casts }

// Progress of the current phase in [0, 1]; 0 while Idle or Out.
func (r *Rod) Progress() float32 {
	if r.state == CastingOut || r.state == ReelingIn {
		return r.phase.Progress()
	}
	return 0
}

// RequestActivate is the activation signal. From Idle it casts the docked
// object, from Out it reels in. Anything else is ignored and returns false.
func (r *Rod) RequestActivate() bool {
	switch r.state {
	case Idle:
		return r.castOut()
	case Out:
		r.reelIn()
		return true
	}
	return false
}

func (r *Rod) castOut() bool {
	if r.attachPoint == nil || r.attachment == nil {
		engine.Warnf("Rod: attach point or attachment missing")
		return false
	}
	if !r.attachment.Ready() {
		return false
	}
	obj, err := r.attachment.Lend(tether.OwnerRod)
	if err != nil {
		engine.Warnf("Rod: %v", err)
		return false
	}

	r.held = obj
	r.start = r.attachPoint.WorldPosition()
	r.end = r.castEnd(r.start)
	r.phase = anim.NewTween(r.cfg.CastOutTime)
	r.state = CastingOut
	engine.Logf("Rod: casting toward (%.2f, %.2f, %.2f)", r.end.X, r.end.Y, r.end.Z)
	return true
}

func (r *Rod) reelIn() {
	r.start = r.held.Position()
	r.phase = anim.NewTween(r.cfg.ReelInTime)
	r.state = ReelingIn
	engine.Logf("Rod: reeling in")
}

func (r *Rod) castEnd(start rl.Vector3) rl.Vector3 {
	dir := castDirection(r.cfg, r.attachPoint, r.viewer)
	end := rl.Vector3Add(start, rl.Vector3Scale(dir, r.cfg.CastDistance))
	return rl.Vector3Add(end, rl.Vector3Scale(engine.Up, r.cfg.EndVerticalBias))
}

func (r *Rod) Update(deltaTime float32) {
	if r.state == Idle {
		return
	}
	if !engine.Assert(r.attachPoint != nil, "Rod: attach point lost while %s", r.state) {
		return
	}

	switch r.state {
	case CastingOut:
		u := r.phase.Step(deltaTime)
		if !r.phase.Done() {
			r.write(anim.Arc(r.start, r.end, r.cfg.ArcHeight, u))
			return
		}
		r.write(r.end)
		r.state = Out
		r.casts++
		engine.Logf("Rod: cast complete")
		r.CastCompleted.Invoke()

	case Out:
		r.write(r.end)

	case ReelingIn:
		u := r.phase.Step(deltaTime)
		target := r.attachPoint.WorldPosition()
		if !r.phase.Done() {
			r.write(anim.Lerp(r.start, target, u))
			return
		}
		obj := r.held
		if err := r.attachment.Return(obj, tether.OwnerRod); err != nil {
			engine.Warnf("Rod: %v", err)
		}
		r.held = nil
		r.state = Idle
		engine.Logf("Rod: reel complete")
		r.ReelCompleted.Invoke()
	}
}

func (r *Rod) write(pos rl.Vector3) {
	if err := r.held.SetPosition(tether.OwnerRod, pos); err != nil {
		engine.Warnf("Rod: %v", err)
	}
}

// LinePoints is the polyline of the line from the attach point to the held
// object, with a sagging midpoint when LineSlack is on. Nil while Idle.
func (r *Rod) LinePoints() []rl.Vector3 {
	if r.state == Idle || r.held == nil || r.attachPoint == nil {
		return nil
	}
	a := r.attachPoint.WorldPosition()
	b := r.held.Position()
	if !r.cfg.LineSlack {
		return []rl.Vector3{a, b}
	}
	mid := rl.Vector3Scale(rl.Vector3Add(a, b), 0.5)
	mid.Y -= r.cfg.SlackAmount
	return []rl.Vector3{a, mid, b}
}

// Trajectory samples the arc a cast would follow from the attach point's
// current pose, start and end included.
func (r *Rod) Trajectory(segments int) []rl.Vector3 {
	if r.attachPoint == nil || segments < 1 {
		return nil
	}
	start := r.attachPoint.WorldPosition()
	end := r.castEnd(start)
	pts := make([]rl.Vector3, 0, segments+1)
	for i := 0; i <= segments; i++ {
		u := float32(i) / float32(segments)
		pts = append(pts, anim.Arc(start, end, r.cfg.ArcHeight, u))
	}
	return pts
}
