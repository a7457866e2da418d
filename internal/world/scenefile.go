package world

import (
	"encoding/json"
	"fmt"
	"os"

	"islandquest/internal/components"
	"islandquest/internal/engine"
	"islandquest/internal/tether"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// --- JSON types ---

type SceneFile struct {
	Objects []ObjectDef `json:"objects"`
}

type ObjectDef struct {
	Name       string            `json:"name"`
	Parent     string            `json:"parent,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Position   [3]float32        `json:"position"`
	Rotation   [3]float32        `json:"rotation"`
	Scale      [3]float32        `json:"scale"`
	Components []json.RawMessage `json:"components,omitempty"`
}

type componentHeader struct {
	Type string `json:"type"`
}

type rigidbodyDef struct {
	Type        string  `json:"type"`
	Mass        float32 `json:"mass,omitempty"`
	Bounciness  float32 `json:"bounciness,omitempty"`
	Friction    float32 `json:"friction,omitempty"`
	UseGravity  *bool   `json:"useGravity,omitempty"`
	IsKinematic bool    `json:"isKinematic,omitempty"`
}

type attachableDef struct {
	Type     string `json:"type"`
	Magnetic bool   `json:"magnetic,omitempty"`
}

type fpsControllerDef struct {
	Type  string  `json:"type"`
	Yaw   float32 `json:"yaw"`
	Pitch float32 `json:"pitch"`
}

func vec(v [3]float32) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func arr(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func raw(def any) json.RawMessage {
	data, err := json.Marshal(def)
	if err != nil {
		return nil
	}
	return data
}

// DefaultScene is the fishing corner of the island: the player with a hold
// point, the rod and its tip, the crate the magnet pops out of, and the
// hidden key with its landing spot.
func DefaultScene() SceneFile {
	yes := true
	rb := raw(rigidbodyDef{Type: "Rigidbody", UseGravity: &yes})
	return SceneFile{Objects: []ObjectDef{
		{Name: "Player", Position: [3]float32{0, 1.6, 0},
			Components: []json.RawMessage{raw(fpsControllerDef{Type: "FPSController", Yaw: 90, Pitch: -20})}},
		{Name: "HoldPoint", Parent: "Player", Position: [3]float32{0.3, -0.4, 0.6}},
		{Name: "Rod", Position: [3]float32{1, 1, 1}},
		{Name: "AttachPoint", Parent: "Rod", Position: [3]float32{0, 1, 0.5}},
		{Name: "Crate", Position: [3]float32{0, 0.5, 2.5}},
		{Name: "PopupPoint", Position: [3]float32{0, 1, 2}},
		{Name: "Magnet", Tags: []string{"Pickup"}, Position: [3]float32{0, 0.5, 2.5},
			Components: []json.RawMessage{rb, raw(attachableDef{Type: "Attachable", Magnetic: true})}},
		{Name: "Key", Position: [3]float32{0, -5, 20},
			Components: []json.RawMessage{rb, raw(attachableDef{Type: "Attachable"})}},
		{Name: "KeyLanding", Position: [3]float32{2, 0.5, 0}, Rotation: [3]float32{0, 45, 0}},
	}}
}

// --- Loading ---

func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene: %w", err)
	}

	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse scene: %w", err)
	}
	return w.Instantiate(sf)
}

// Instantiate adds every object of sf to the scene. Parents must be listed
// before their children.
func (w *World) Instantiate(sf SceneFile) error {
	for _, objDef := range sf.Objects {
		g := engine.NewGameObject(objDef.Name)
		g.Tags = objDef.Tags
		g.Transform.Position = vec(objDef.Position)
		g.Transform.Rotation = vec(objDef.Rotation)

		// Default scale to 1 if zero
		if objDef.Scale == [3]float32{} {
			g.Transform.Scale = rl.Vector3{X: 1, Y: 1, Z: 1}
		} else {
			g.Transform.Scale = vec(objDef.Scale)
		}

		if objDef.Parent != "" {
			parent := w.Scene.FindByName(objDef.Parent)
			if parent == nil {
				return fmt.Errorf("scene: %s: parent %q not defined before it", objDef.Name, objDef.Parent)
			}
			parent.AddChild(g)
		}

		for _, raw := range objDef.Components {
			var header componentHeader
			if err := json.Unmarshal(raw, &header); err != nil {
				continue
			}

			var err error
			switch header.Type {
			case "Rigidbody":
				err = loadRigidbody(g, raw)
			case "Attachable":
				err = loadAttachable(g, raw)
			case "FPSController":
				err = loadFPSController(g, raw)
			default:
				engine.Warnf("World: %s: unknown component %q", objDef.Name, header.Type)
			}
			if err != nil {
				return fmt.Errorf("scene: %s: %w", objDef.Name, err)
			}
		}

		w.Scene.AddGameObject(g)
		w.Physics.AddObject(g)
	}

	return nil
}

func loadRigidbody(g *engine.GameObject, raw json.RawMessage) error {
	var def rigidbodyDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return err
	}
	rb := components.NewRigidbody()
	if def.Mass > 0 {
		rb.Mass = def.Mass
	}
	if def.Bounciness > 0 {
		rb.Bounciness = def.Bounciness
	}
	if def.Friction > 0 {
		rb.Friction = def.Friction
	}
	if def.UseGravity != nil {
		rb.UseGravity = *def.UseGravity
	}
	rb.IsKinematic = def.IsKinematic
	g.AddComponent(rb)
	return nil
}

func loadAttachable(g *engine.GameObject, raw json.RawMessage) error {
	var def attachableDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return err
	}
	rb := engine.GetComponent[*components.Rigidbody](g)
	if rb == nil {
		return fmt.Errorf("attachable needs a rigidbody listed before it")
	}
	g.AddComponent(tether.NewAttachable(rb, def.Magnetic))
	return nil
}

func loadFPSController(g *engine.GameObject, raw json.RawMessage) error {
	var def fpsControllerDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return err
	}
	fps := components.NewFPSController()
	fps.Yaw = def.Yaw
	fps.Pitch = def.Pitch
	g.AddComponent(fps)
	return nil
}

// --- Saving ---

// SaveScene writes the current hierarchy with local transforms. Gameplay
// components wired in code are not saved; only the ones LoadScene builds.
func (w *World) SaveScene(path string) error {
	data, err := json.MarshalIndent(w.SceneFile(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

// SceneFile captures the scene in file form. Parents always precede their
// children.
func (w *World) SceneFile() SceneFile {
	var sf SceneFile
	seen := make(map[*engine.GameObject]bool)
	var visit func(g *engine.GameObject)
	visit = func(g *engine.GameObject) {
		if seen[g] {
			return
		}
		if g.Parent != nil {
			visit(g.Parent)
		}
		seen[g] = true

		objDef := ObjectDef{
			Name:     g.Name,
			Tags:     g.Tags,
			Position: arr(g.Transform.Position),
			Rotation: arr(g.Transform.Rotation),
			Scale:    arr(g.Transform.Scale),
		}
		if g.Parent != nil {
			objDef.Parent = g.Parent.Name
		}
		for _, c := range g.Components() {
			if raw := serializeComponent(c); raw != nil {
				objDef.Components = append(objDef.Components, raw)
			}
		}
		sf.Objects = append(sf.Objects, objDef)
	}
	for _, g := range w.Scene.GameObjects {
		visit(g)
	}
	return sf
}

func serializeComponent(c engine.Component) json.RawMessage {
	switch comp := c.(type) {
	case *components.Rigidbody:
		useGravity := comp.UseGravity
		return raw(rigidbodyDef{
			Type:        "Rigidbody",
			Mass:        comp.Mass,
			Bounciness:  comp.Bounciness,
			Friction:    comp.Friction,
			UseGravity:  &useGravity,
			IsKinematic: comp.IsKinematic,
		})
	case *tether.Attachable:
		return raw(attachableDef{Type: "Attachable", Magnetic: comp.Magnetic})
	case *components.FPSController:
		return raw(fpsControllerDef{Type: "FPSController", Yaw: comp.Yaw, Pitch: comp.Pitch})
	}
	return nil
}
