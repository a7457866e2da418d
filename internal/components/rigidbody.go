package components

import (
	"islandquest/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Sleep thresholds
const (
	SleepVelocityThreshold = 0.3 // units/sec - below this, object might sleep
	SleepAngularThreshold  = 1.0 // deg/sec - below this, object might sleep
	SleepTimeThreshold     = 0.3 // seconds of low velocity before sleeping
)

// Rigidbody is the engine-side physics body. It satisfies physics.Body, so
// gameplay code toggles simulation and writes positions without knowing
// which integrator runs underneath.
type Rigidbody struct {
	engine.BaseComponent
	Velocity         rl.Vector3
	AngularVelocity  rl.Vector3 // degrees per second on each axis
	Mass             float32
	Bounciness       float32 // 0 = no bounce, 1 = perfect bounce
	Friction         float32 // 0 = ice, 1 = stops immediately
	AngularDamping   float32 // how fast rotation slows down
	UseGravity       bool
	IsKinematic      bool // moves but doesn't get pushed by physics
	DetectCollisions bool

	// Simulated is false while another component authors the transform.
	Simulated bool

	// Sleep state - sleeping objects skip physics simulation
	IsSleeping bool
	sleepTimer float32 // time spent below velocity threshold
	CanSleep   bool    // whether this object can sleep (default true)
}

func NewRigidbody() *Rigidbody {
	return &Rigidbody{
		Velocity:         rl.Vector3{},
		AngularVelocity:  rl.Vector3{},
		Mass:             1.0,
		Bounciness:       0.5,
		Friction:         0.1,
		AngularDamping:   0.98, // slight damping each frame
		UseGravity:       true,
		IsKinematic:      false,
		DetectCollisions: true,
		Simulated:        true,
		CanSleep:         true,
	}
}

// SetSimulated turns gravity integration and collision response on or off.
func (r *Rigidbody) SetSimulated(on bool) {
	r.Simulated = on
	r.DetectCollisions = on
	if on {
		r.Wake()
	}
}

func (r *Rigidbody) IsSimulated() bool {
	return r.Simulated
}

func (r *Rigidbody) SetPosition(pos rl.Vector3) {
	if g := r.GetGameObject(); g != nil {
		g.SetWorldPosition(pos)
	}
}

func (r *Rigidbody) Position() rl.Vector3 {
	if g := r.GetGameObject(); g != nil {
		return g.WorldPosition()
	}
	return rl.Vector3{}
}

func (r *Rigidbody) ZeroVelocity() {
	r.Velocity = rl.Vector3{}
	r.AngularVelocity = rl.Vector3{}
}

// Wake forces the rigidbody out of sleep state
func (r *Rigidbody) Wake() {
	r.IsSleeping = false
	r.sleepTimer = 0
}

// TrySleep checks if the rigidbody should go to sleep based on velocity
func (r *Rigidbody) TrySleep(deltaTime float32) {
	if !r.CanSleep || r.IsSleeping {
		return
	}

	speed := rl.Vector3Length(r.Velocity)
	angSpeed := rl.Vector3Length(r.AngularVelocity)

	if speed < SleepVelocityThreshold && angSpeed < SleepAngularThreshold {
		r.sleepTimer += deltaTime

		// Apply extra damping when nearly at rest to reduce jitter
		dampFactor := float32(0.9)
		r.Velocity = rl.Vector3Scale(r.Velocity, dampFactor)
		r.AngularVelocity = rl.Vector3Scale(r.AngularVelocity, dampFactor)

		if r.sleepTimer >= SleepTimeThreshold {
			r.IsSleeping = true
			r.Velocity = rl.Vector3{}
			r.AngularVelocity = rl.Vector3{}
		}
	} else {
		r.sleepTimer = 0
	}
}
