package physics

import (
	"islandquest/internal/components"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Body is everything gameplay code needs from a physics engine. Motion
// synthesis writes positions through it and ownership hand-offs toggle
// simulation with it.
type Body interface {
	SetSimulated(on bool)
	IsSimulated() bool
	SetPosition(pos rl.Vector3)
	Position() rl.Vector3
	ZeroVelocity()
}

// Authority is implemented by components that may hold transform authority
// over their object. The world only integrates objects whose authorities
// all report PhysicsOwned.
type Authority interface {
	PhysicsOwned() bool
}

var _ Body = (*components.Rigidbody)(nil)
