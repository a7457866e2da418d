package engine

type Component interface {
	Start()
	Update(deltaTime float32)
	SetGameObject(g *GameObject)
	GetGameObject() *GameObject
}

// LookProvider is implemented by anything that exposes a viewing direction.
// The rod blends its cast direction toward it and the pickup holder aims with it.
type LookProvider interface {
	GetLookDirection() (x, y, z float32)
}

// Scheduler runs a callback a number of ticks in the future.
// Scene implements it; components that need to settle for a tick take one
// at construction instead of looking the scene up.
type Scheduler interface {
	After(ticks int, fn func())
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GetGameObject() *GameObject {
	return b.gameObject
}
