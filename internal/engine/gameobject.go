package engine

import (
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var nextUID atomic.Uint64

// Up is the world up axis.
var Up = rl.Vector3{X: 0, Y: 1, Z: 0}

type Transform struct {
	Position rl.Vector3
	Rotation rl.Vector3 // Euler angles in degrees
	Scale    rl.Vector3
}

type GameObject struct {
	UID        uint64
	Name       string
	Tags       []string
	Transform  Transform
	Active     bool
	Scene      *Scene
	Parent     *GameObject
	Children   []*GameObject
	components []Component
	started    bool
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		UID:    nextUID.Add(1),
		Name:   name,
		Active: true,
		Transform: Transform{
			Position: rl.Vector3{},
			Rotation: rl.Vector3{},
			Scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
		},
		components: make([]Component, 0),
		Children:   make([]*GameObject, 0),
	}
}

func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
}

// GetComponent returns the first component of type T, or the zero value.
func GetComponent[T any](g *GameObject) T {
	var zero T
	if g == nil {
		return zero
	}
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

func (g *GameObject) Start() {
	if g.started {
		return
	}
	for _, c := range g.components {
		c.Start()
	}
	g.started = true
}

func (g *GameObject) Update(deltaTime float32) {
	if !g.Active {
		return
	}
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}

func (g *GameObject) Components() []Component {
	return g.components
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (g *GameObject) AddChild(child *GameObject) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = g
	g.Children = append(g.Children, child)
}

func (g *GameObject) RemoveChild(child *GameObject) {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// SetParent moves g under parent (nil detaches it). With worldPositionStays
// the world position and rotation are preserved; otherwise the local
// transform is kept as-is and reinterpreted relative to the new parent.
func (g *GameObject) SetParent(parent *GameObject, worldPositionStays bool) {
	if g.Parent == parent {
		return
	}
	pos := g.WorldPosition()
	rot := g.WorldRotation()

	if g.Parent != nil {
		g.Parent.RemoveChild(g)
	}
	if parent != nil {
		parent.AddChild(g)
	}

	if worldPositionStays {
		g.SetWorldPosition(pos)
		g.SetWorldRotation(rot)
	}
}

func (g *GameObject) WorldPosition() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Position
	}
	parentPos := g.Parent.WorldPosition()
	parentScale := g.Parent.WorldScale()

	// Scale local position by parent's world scale
	scaled := rl.Vector3{
		X: g.Transform.Position.X * parentScale.X,
		Y: g.Transform.Position.Y * parentScale.Y,
		Z: g.Transform.Position.Z * parentScale.Z,
	}

	rotated := rl.Vector3Transform(scaled, rotationMatrix(g.Parent.WorldRotation()))
	return rl.Vector3Add(parentPos, rotated)
}

// SetWorldPosition writes the local position that places g at pos in world space.
func (g *GameObject) SetWorldPosition(pos rl.Vector3) {
	if g.Parent == nil {
		g.Transform.Position = pos
		return
	}
	offset := rl.Vector3Subtract(pos, g.Parent.WorldPosition())
	local := rl.Vector3Transform(offset, rl.MatrixInvert(rotationMatrix(g.Parent.WorldRotation())))

	ps := g.Parent.WorldScale()
	g.Transform.Position = rl.Vector3{
		X: safeDiv(local.X, ps.X),
		Y: safeDiv(local.Y, ps.Y),
		Z: safeDiv(local.Z, ps.Z),
	}
}

func (g *GameObject) WorldRotation() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Rotation
	}
	return rl.Vector3Add(g.Parent.WorldRotation(), g.Transform.Rotation)
}

func (g *GameObject) SetWorldRotation(rot rl.Vector3) {
	if g.Parent == nil {
		g.Transform.Rotation = rot
		return
	}
	g.Transform.Rotation = rl.Vector3Subtract(rot, g.Parent.WorldRotation())
}

func (g *GameObject) WorldScale() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Scale
	}
	ps := g.Parent.WorldScale()
	return rl.Vector3{
		X: ps.X * g.Transform.Scale.X,
		Y: ps.Y * g.Transform.Scale.Y,
		Z: ps.Z * g.Transform.Scale.Z,
	}
}

// TransformDirection rotates a local-space direction into world space.
// Scale is ignored.
func (g *GameObject) TransformDirection(local rl.Vector3) rl.Vector3 {
	return rl.Vector3Transform(local, rotationMatrix(g.WorldRotation()))
}

// Forward is the world-space +Z axis of the object.
func (g *GameObject) Forward() rl.Vector3 {
	return g.TransformDirection(rl.Vector3{X: 0, Y: 0, Z: 1})
}

// rotationMatrix builds the rotation for Euler angles in degrees
// (same convention as ModelRenderer: X then Y then Z).
func rotationMatrix(euler rl.Vector3) rl.Matrix {
	rotX := rl.MatrixRotateX(euler.X * rl.Deg2rad)
	rotY := rl.MatrixRotateY(euler.Y * rl.Deg2rad)
	rotZ := rl.MatrixRotateZ(euler.Z * rl.Deg2rad)
	return rl.MatrixMultiply(rl.MatrixMultiply(rotX, rotY), rotZ)
}

func safeDiv(v, s float32) float32 {
	if s == 0 {
		return 0
	}
	return v / s
}
