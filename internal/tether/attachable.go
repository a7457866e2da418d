// Package tether models objects that can be handed between gameplay
// components and the attach point that docks them to the rod.
package tether

import (
	"errors"
	"fmt"

	"islandquest/internal/engine"
	"islandquest/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Mode is how an Attachable is currently held.
type Mode int

const (
	Free     Mode = iota // physics simulates it (loose or player-held)
	Docked               // parented to a fixed point, transform authored externally
	Tethered             // driven by the rod's cast/reel motion
	InFlight             // detached and animated toward a target
)

func (m Mode) String() string {
	switch m {
	case Free:
		return "Free"
	case Docked:
		return "Docked"
	case Tethered:
		return "Tethered"
	case InFlight:
		return "InFlight"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Owner names the single component allowed to write an Attachable's
// transform.
type Owner int

const (
	OwnerNone Owner = iota // the physics world
	OwnerHolder
	OwnerAttachment
	OwnerRod
	OwnerPopup
	OwnerReveal
)

func (o Owner) String() string {
	switch o {
	case OwnerNone:
		return "physics"
	case OwnerHolder:
		return "holder"
	case OwnerAttachment:
		return "attachment"
	case OwnerRod:
		return "rod"
	case OwnerPopup:
		return "popup"
	case OwnerReveal:
		return "reveal"
	}
	return fmt.Sprintf("Owner(%d)", int(o))
}

var (
	ErrNotOwner = errors.New("tether: caller does not own the object")
	ErrNotFree  = errors.New("tether: object is not free")
)

// Attachable is a physically simulated object whose transform authority is
// passed between components. The body is simulated exactly when the mode
// is Free.
type Attachable struct {
	engine.BaseComponent
	Magnetic bool

	body  physics.Body
	mode  Mode
	owner Owner
}

func NewAttachable(body physics.Body, magnetic bool) *Attachable {
	a := &Attachable{Magnetic: magnetic, body: body}
	a.setMode(Free)
	return a
}

func (a *Attachable) Mode() Mode { return a.mode }

func (a *Attachable) Owner() Owner { return a.owner }

func (a *Attachable) Body() physics.Body { return a.body }

func (a *Attachable) Position() rl.Vector3 { return a.body.Position() }

// PhysicsOwned implements physics.Authority.
func (a *Attachable) PhysicsOwned() bool { return a.owner == OwnerNone }

func (a *Attachable) name() string {
	if g := a.GetGameObject(); g != nil {
		return g.Name
	}
	return "attachable"
}

// Claim takes a free object for owner and switches it to mode. Free
// objects are up for grabs regardless of who currently holds them.
func (a *Attachable) Claim(owner Owner, mode Mode) error {
	if a.mode != Free {
		return fmt.Errorf("%w: %s is %s", ErrNotFree, a.name(), a.mode)
	}
	a.owner = owner
	a.setMode(mode)
	return nil
}

// Handoff passes authority from the current owner to another.
func (a *Attachable) Handoff(from, to Owner, mode Mode) error {
	if err := a.check(from); err != nil {
		return err
	}
	a.owner = to
	a.setMode(mode)
	return nil
}

// SetMode changes the mode without changing owner.
func (a *Attachable) SetMode(by Owner, mode Mode) error {
	if err := a.check(by); err != nil {
		return err
	}
	a.setMode(mode)
	return nil
}

// Release gives the object back to the physics world.
func (a *Attachable) Release(by Owner) error {
	if err := a.check(by); err != nil {
		return err
	}
	a.owner = OwnerNone
	a.setMode(Free)
	a.body.ZeroVelocity()
	return nil
}

func (a *Attachable) SetPosition(by Owner, pos rl.Vector3) error {
	if err := a.check(by); err != nil {
		return err
	}
	a.body.SetPosition(pos)
	return nil
}

// SetRotation writes the world rotation in Euler degrees.
func (a *Attachable) SetRotation(by Owner, euler rl.Vector3) error {
	if err := a.check(by); err != nil {
		return err
	}
	if g := a.GetGameObject(); g != nil {
		g.SetWorldRotation(euler)
	}
	return nil
}

// Reparent places the object under parent with the given local transform.
func (a *Attachable) Reparent(by Owner, parent *engine.GameObject, localPos, localEuler rl.Vector3) error {
	if err := a.check(by); err != nil {
		return err
	}
	g := a.GetGameObject()
	if g == nil {
		return nil
	}
	g.SetParent(parent, false)
	g.Transform.Position = localPos
	g.Transform.Rotation = localEuler
	return nil
}

// Unparent detaches the object, keeping its world transform.
func (a *Attachable) Unparent(by Owner) error {
	if err := a.check(by); err != nil {
		return err
	}
	if g := a.GetGameObject(); g != nil {
		g.SetParent(nil, true)
	}
	return nil
}

func (a *Attachable) check(by Owner) error {
	if by != a.owner {
		return fmt.Errorf("%w: %s writing %s owned by %s", ErrNotOwner, by, a.name(), a.owner)
	}
	return nil
}

func (a *Attachable) setMode(m Mode) {
	a.mode = m
	a.body.SetSimulated(m == Free)
	if m != Free {
		a.body.ZeroVelocity()
	}
}
