package physics

import (
	"islandquest/internal/components"
	"islandquest/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PhysicsWorld integrates gravity for simulated rigidbodies and resolves
// contact with a flat floor. It is the default writer of an object's
// transform: anything claimed by a gameplay component is skipped.
type PhysicsWorld struct {
	Gravity rl.Vector3
	FloorY  float32
	Objects []*engine.GameObject
}

func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		Gravity: rl.Vector3{X: 0, Y: -20.0, Z: 0},
		Objects: make([]*engine.GameObject, 0),
	}
}

// AddObject registers g if it carries a Rigidbody.
func (p *PhysicsWorld) AddObject(g *engine.GameObject) bool {
	if engine.GetComponent[*components.Rigidbody](g) == nil {
		return false
	}
	for _, obj := range p.Objects {
		if obj == g {
			return true
		}
	}
	p.Objects = append(p.Objects, g)
	return true
}

func (p *PhysicsWorld) RemoveObject(g *engine.GameObject) {
	for i, obj := range p.Objects {
		if obj == g {
			p.Objects = append(p.Objects[:i], p.Objects[i+1:]...)
			return
		}
	}
}

func (p *PhysicsWorld) Update(deltaTime float32) {
	for _, obj := range p.Objects {
		if !obj.Active {
			continue
		}
		rb := engine.GetComponent[*components.Rigidbody](obj)
		if rb == nil || !rb.Simulated || rb.IsKinematic || rb.IsSleeping {
			continue
		}
		if !physicsOwned(obj) {
			continue
		}

		if rb.UseGravity {
			rb.Velocity = rl.Vector3Add(rb.Velocity, rl.Vector3Scale(p.Gravity, deltaTime))
		}

		pos := rl.Vector3Add(obj.WorldPosition(), rl.Vector3Scale(rb.Velocity, deltaTime))

		obj.Transform.Rotation = rl.Vector3Add(
			obj.Transform.Rotation,
			rl.Vector3Scale(rb.AngularVelocity, deltaTime),
		)

		// Apply angular damping (time-based so it's framerate independent)
		damping := float32(1.0) - (1.0-rb.AngularDamping)*deltaTime*60
		if damping < 0 {
			damping = 0
		}
		rb.AngularVelocity = rl.Vector3Scale(rb.AngularVelocity, damping)

		if pos.Y < p.FloorY {
			pos.Y = p.FloorY
			if rb.Velocity.Y < 0 {
				rb.Velocity.Y = -rb.Velocity.Y * rb.Bounciness
			}
			rb.Velocity.X *= 1 - rb.Friction
			rb.Velocity.Z *= 1 - rb.Friction
		}
		obj.SetWorldPosition(pos)

		rb.TrySleep(deltaTime)
	}
}

func physicsOwned(obj *engine.GameObject) bool {
	for _, c := range obj.Components() {
		if a, ok := c.(Authority); ok && !a.PhysicsOwned() {
			return false
		}
	}
	return true
}
