// Package world holds the island scene: the game object hierarchy, the
// physics world stepping it, and the scene file it is loaded from.
package world

import (
	"islandquest/internal/engine"
	"islandquest/internal/physics"
)

type World struct {
	Scene   *engine.Scene
	Physics *physics.PhysicsWorld
}

func New() *World {
	return &World{
		Scene:   engine.NewScene("Island"),
		Physics: physics.NewPhysicsWorld(),
	}
}

// Find returns the object called name, or nil.
func (w *World) Find(name string) *engine.GameObject {
	return w.Scene.FindByName(name)
}

// Update runs one tick: gameplay components first, then physics for
// whatever they left to it.
func (w *World) Update(deltaTime float32) {
	w.Scene.Update(deltaTime)
	w.Physics.Update(deltaTime)
}
