package tether

import (
	"errors"
	"fmt"

	"islandquest/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	ErrNoCandidate   = errors.New("tether: no candidate")
	ErrNoAttachPoint = errors.New("tether: no attach point")
	ErrOccupied      = errors.New("tether: attach point already occupied")
	ErrWrongMode     = errors.New("tether: candidate is not free")
	ErrNotAttachable = errors.New("tether: candidate is not magnetic")
	ErrTooFar        = errors.New("tether: candidate out of capture range")
	ErrNotLent       = errors.New("tether: object was not lent by this attachment")
)

type AttachmentConfig struct {
	CaptureDistance    float32 `json:"captureDistance"`
	ReparentDelayTicks int     `json:"reparentDelayTicks"`
}

func DefaultAttachmentConfig() AttachmentConfig {
	return AttachmentConfig{
		CaptureDistance:    3,
		ReparentDelayTicks: 1,
	}
}

func (c AttachmentConfig) Validate() error {
	if c.CaptureDistance < 0 {
		return fmt.Errorf("attachment: captureDistance must be >= 0, got %v", c.CaptureDistance)
	}
	if c.ReparentDelayTicks < 0 {
		return fmt.Errorf("attachment: reparentDelayTicks must be >= 0, got %d", c.ReparentDelayTicks)
	}
	return nil
}

// Attachment docks a magnetic object at the rod's attach point and keeps it
// there. While the rod has the object out it is lent and not enforced.
type Attachment struct {
	engine.BaseComponent
	cfg         AttachmentConfig
	attachPoint *engine.GameObject
	sched       engine.Scheduler

	obj      *Attachable
	lent     bool
	parented bool
	Docked   engine.EventWithArg[*Attachable]
}

// NewAttachment wires the attach point and the scheduler used for the
// deferred re-parent. A nil scheduler re-parents immediately.
func NewAttachment(cfg AttachmentConfig, attachPoint *engine.GameObject, sched engine.Scheduler) *Attachment {
	return &Attachment{cfg: cfg, attachPoint: attachPoint, sched: sched}
}

func (a *Attachment) Config() AttachmentConfig { return a.cfg }

func (a *Attachment) AttachPoint() *engine.GameObject { return a.attachPoint }

// Attached returns the docked object, including while it is lent.
func (a *Attachment) Attached() *Attachable { return a.obj }

func (a *Attachment) HasAttached() bool { return a.obj != nil }

// Ready reports whether a docked object is at the attach point and
// available to lend.
func (a *Attachment) Ready() bool { return a.obj != nil && !a.lent }

func (a *Attachment) Lent() bool { return a.lent }

// TryAttach docks candidate if it is free, magnetic and within capture
// distance. The snap is immediate; the hierarchy change waits
// ReparentDelayTicks so pickup/drop logic running this tick settles first.
func (a *Attachment) TryAttach(candidate *Attachable) error {
	if candidate == nil {
		engine.Warnf("Attachment: no item to attach")
		return ErrNoCandidate
	}
	if a.attachPoint == nil {
		engine.Warnf("Attachment: attach point missing")
		return ErrNoAttachPoint
	}
	if a.obj != nil {
		return ErrOccupied
	}
	if candidate.Mode() != Free {
		return fmt.Errorf("%w: %s", ErrWrongMode, candidate.Mode())
	}
	if !candidate.Magnetic {
		return fmt.Errorf("%w: %s", ErrNotAttachable, candidate.name())
	}
	dist := rl.Vector3Distance(candidate.Position(), a.attachPoint.WorldPosition())
	if dist > a.cfg.CaptureDistance {
		return fmt.Errorf("%w: %.2f > %.2f", ErrTooFar, dist, a.cfg.CaptureDistance)
	}

	if err := candidate.Claim(OwnerAttachment, Docked); err != nil {
		return err
	}
	a.obj = candidate
	a.lent = false
	a.parented = false
	a.snap()

	obj := candidate
	reparent := func() {
		if a.obj != obj || a.lent || obj.Owner() != OwnerAttachment {
			return
		}
		a.dock()
		engine.Logf("Attachment: %s parented under attach point after delay", obj.name())
	}
	if a.sched == nil {
		reparent()
	} else {
		a.sched.After(a.cfg.ReparentDelayTicks, reparent)
	}

	engine.Logf("Attachment: %s attached", candidate.name())
	return nil
}

// Lend hands the docked object to another owner in Tethered mode, detached
// from the attach point.
func (a *Attachment) Lend(to Owner) (*Attachable, error) {
	if a.obj == nil {
		return nil, ErrNoCandidate
	}
	if a.lent {
		return nil, fmt.Errorf("%w: already lent", ErrNotLent)
	}
	if err := a.obj.Unparent(OwnerAttachment); err != nil {
		return nil, err
	}
	if err := a.obj.Handoff(OwnerAttachment, to, Tethered); err != nil {
		return nil, err
	}
	a.lent = true
	a.parented = false
	return a.obj, nil
}

// Return takes a lent object back from its current owner and docks it.
func (a *Attachment) Return(obj *Attachable, from Owner) error {
	if obj == nil || obj != a.obj || !a.lent {
		return ErrNotLent
	}
	if err := obj.Handoff(from, OwnerAttachment, Docked); err != nil {
		return err
	}
	a.lent = false
	a.dock()
	return nil
}

func (a *Attachment) Update(deltaTime float32) {
	if a.obj == nil || a.lent || a.attachPoint == nil {
		return
	}
	if a.obj.Owner() != OwnerAttachment {
		engine.Warnf("Attachment: %s taken by %s, releasing", a.obj.name(), a.obj.Owner())
		a.obj = nil
		return
	}

	// Something else unparented it; put it back.
	if a.parented {
		if g := a.obj.GetGameObject(); g != nil && g.Parent != a.attachPoint {
			engine.Logf("Attachment: re-parenting %s", a.obj.name())
			a.dock()
		}
	}
	a.snap()
}

func (a *Attachment) dock() {
	if err := a.obj.Reparent(OwnerAttachment, a.attachPoint, rl.Vector3{}, rl.Vector3{}); err != nil {
		engine.Warnf("Attachment: %v", err)
		return
	}
	a.parented = true
	a.Docked.Invoke(a.obj)
}

func (a *Attachment) snap() {
	if err := a.obj.SetPosition(OwnerAttachment, a.attachPoint.WorldPosition()); err != nil {
		engine.Warnf("Attachment: %v", err)
		return
	}
	if err := a.obj.SetRotation(OwnerAttachment, a.attachPoint.WorldRotation()); err != nil {
		engine.Warnf("Attachment: %v", err)
	}
}
