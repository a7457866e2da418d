package engine

type deferred struct {
	ticks int
	fn    func()
}

type Scene struct {
	Name        string
	GameObjects []*GameObject
	uidMap      map[uint64]*GameObject
	tick        uint64
	pending     []deferred
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:        name,
		GameObjects: make([]*GameObject, 0),
		uidMap:      make(map[uint64]*GameObject),
	}
}

func (s *Scene) AddGameObject(g *GameObject) {
	if s.uidMap == nil {
		s.uidMap = make(map[uint64]*GameObject)
	}
	g.Scene = s
	s.GameObjects = append(s.GameObjects, g)
	s.uidMap[g.UID] = g
}

// RemoveGameObject removes g and all of its descendants from the scene.
func (s *Scene) RemoveGameObject(g *GameObject) {
	for _, child := range g.Children {
		s.RemoveGameObject(child)
	}
	for i, obj := range s.GameObjects {
		if obj == g {
			s.GameObjects = append(s.GameObjects[:i], s.GameObjects[i+1:]...)
			break
		}
	}
	delete(s.uidMap, g.UID)
	g.Scene = nil
}

func (s *Scene) FindByUID(uid uint64) *GameObject {
	return s.uidMap[uid]
}

func (s *Scene) FindByName(name string) *GameObject {
	for _, g := range s.GameObjects {
		if g.Name == name {
			return g
		}
	}
	return nil
}

func (s *Scene) FindByTag(tag string) []*GameObject {
	var result []*GameObject
	for _, g := range s.GameObjects {
		if g.HasTag(tag) {
			result = append(result, g)
		}
	}
	return result
}

// Tick returns the number of completed Update calls.
func (s *Scene) Tick() uint64 {
	return s.tick
}

// After implements Scheduler. ticks <= 0 runs fn immediately; ticks == 1
// runs it at the start of the next Update, before any component.
func (s *Scene) After(ticks int, fn func()) {
	if fn == nil {
		return
	}
	if ticks <= 0 {
		fn()
		return
	}
	s.pending = append(s.pending, deferred{ticks: ticks, fn: fn})
}

func (s *Scene) Start() {
	for _, g := range s.GameObjects {
		g.Start()
	}
}

func (s *Scene) Update(deltaTime float32) {
	s.runDeferred()
	for _, g := range s.GameObjects {
		g.Update(deltaTime)
	}
	s.tick++
}

func (s *Scene) runDeferred() {
	if len(s.pending) == 0 {
		return
	}
	due := make([]func(), 0, len(s.pending))
	kept := s.pending[:0]
	for _, d := range s.pending {
		d.ticks--
		if d.ticks <= 0 {
			due = append(due, d.fn)
			continue
		}
		kept = append(kept, d)
	}
	s.pending = kept
	for _, fn := range due {
		fn()
	}
}
