package components

import (
	"math"

	"islandquest/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FPSController is the player's body and view. Input arrives as intents
// (Look, Move) from whatever drives the player; the controller applies them
// once per tick.
type FPSController struct {
	engine.BaseComponent
	Yaw       float32
	Pitch     float32
	MoveSpeed float32
	LookSpeed float32
	Velocity  rl.Vector3

	moveForward float32
	moveRight   float32
}

func NewFPSController() *FPSController {
	return &FPSController{
		Yaw:       90.0,
		Pitch:     -20.0,
		MoveSpeed: 4.0,
		LookSpeed: 1.0,
	}
}

// Look turns the view by the given degrees, scaled by LookSpeed.
func (f *FPSController) Look(dYaw, dPitch float32) {
	f.Yaw += dYaw * f.LookSpeed
	f.Pitch += dPitch * f.LookSpeed

	// Clamp pitch
	if f.Pitch > 89 {
		f.Pitch = 89
	}
	if f.Pitch < -89 {
		f.Pitch = -89
	}
}

// Move sets the walking intent for the next tick, each axis in [-1, 1].
func (f *FPSController) Move(forward, right float32) {
	f.moveForward = forward
	f.moveRight = right
}

func (f *FPSController) Update(deltaTime float32) {
	g := f.GetGameObject()
	if g == nil {
		return
	}

	forward, right := f.getDirections()

	var moveDir rl.Vector3
	moveDir.X = forward.X*f.moveForward - right.X*f.moveRight
	moveDir.Z = forward.Z*f.moveForward - right.Z*f.moveRight
	f.moveForward, f.moveRight = 0, 0

	// Normalize diagonal movement
	moveLen := float32(math.Sqrt(float64(moveDir.X*moveDir.X + moveDir.Z*moveDir.Z)))
	if moveLen > 1 {
		moveDir.X /= moveLen
		moveDir.Z /= moveLen
	}

	f.Velocity.X = moveDir.X * f.MoveSpeed
	f.Velocity.Z = moveDir.Z * f.MoveSpeed

	g.Transform.Position.X += f.Velocity.X * deltaTime
	g.Transform.Position.Z += f.Velocity.Z * deltaTime
}

func (f *FPSController) getDirections() (forward, right rl.Vector3) {
	yawRad := float64(f.Yaw) * math.Pi / 180
	forward = rl.Vector3{
		X: float32(math.Cos(yawRad)),
		Y: 0,
		Z: float32(math.Sin(yawRad)),
	}
	right = rl.Vector3{
		X: float32(math.Sin(yawRad)),
		Y: 0,
		Z: float32(-math.Cos(yawRad)),
	}
	return
}

// GetLookDirection implements engine.LookProvider.
func (f *FPSController) GetLookDirection() (x, y, z float32) {
	yawRad := float64(f.Yaw) * math.Pi / 180
	pitchRad := float64(f.Pitch) * math.Pi / 180
	return float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		float32(math.Sin(pitchRad)),
		float32(math.Sin(yawRad) * math.Cos(pitchRad))
}
