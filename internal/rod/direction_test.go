package rod

import (
	"testing"

	"islandquest/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type fixedLook struct{ x, y, z float32 }

func (f fixedLook) GetLookDirection() (x, y, z float32) { return f.x, f.y, f.z }

func TestSlerpDirection(t *testing.T) {
	tests := []struct {
		name     string
		from, to rl.Vector3
		t        float32
		want     rl.Vector3
	}{
		{"no blend", rl.Vector3{X: 1}, rl.Vector3{Z: 1}, 0, rl.Vector3{X: 1}},
		{"half way", rl.Vector3{X: 1}, rl.Vector3{Z: 1}, 0.5, rl.Vector3{X: 0.70710677, Z: 0.70710677}},
		{"full blend", rl.Vector3{X: 1}, rl.Vector3{Z: 1}, 1, rl.Vector3{Z: 1}},
		{"keeps length", rl.Vector3{X: 2}, rl.Vector3{Z: 1}, 1, rl.Vector3{Z: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slerpDirection(tt.from, tt.to, tt.t)
			if !near(got, tt.want, 1e-4) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCastDirectionFlattensAndNormalizes(t *testing.T) {
	point := engine.NewGameObject("AttachPoint")
	cfg := DefaultConfig()
	cfg.LocalDirection = rl.Vector3{Y: 1, Z: 1}

	got := castDirection(cfg, point, nil)
	if !near(got, rl.Vector3{Z: 1}, 1e-6) {
		t.Errorf("Expected flattened unit +Z, got %v", got)
	}

	cfg.FlattenY = false
	got = castDirection(cfg, point, nil)
	if !near(got, rl.Vector3{Y: 0.70710677, Z: 0.70710677}, 1e-5) {
		t.Errorf("Expected normalized diagonal, got %v", got)
	}

	cfg.NormalizeDirection = false
	got = castDirection(cfg, point, nil)
	if !near(got, rl.Vector3{Y: 1, Z: 1}, 1e-6) {
		t.Errorf("Expected raw direction, got %v", got)
	}
}

func TestCastDirectionFollowsAttachPointRotation(t *testing.T) {
	point := engine.NewGameObject("AttachPoint")
	point.Transform.Rotation = rl.Vector3{Y: 90}

	got := castDirection(DefaultConfig(), point, nil)
	if d := rl.Vector3Length(got); d < 0.9999 || d > 1.0001 {
		t.Errorf("Expected unit direction, got length %v", d)
	}
	if got.Z > 1e-4 || got.Z < -1e-4 {
		t.Errorf("Expected a sideways throw after a 90 degree yaw, got %v", got)
	}
}

func TestCastDirectionCameraBlend(t *testing.T) {
	point := engine.NewGameObject("AttachPoint")
	cfg := DefaultConfig()
	cfg.CameraBlend = 1
	look := fixedLook{x: 1, y: -0.5}

	got := castDirection(cfg, point, look)
	if !near(got, rl.Vector3{X: 1}, 1e-4) {
		t.Errorf("Expected full blend toward the flattened look direction, got %v", got)
	}

	cfg.CameraBlend = 0.5
	got = castDirection(cfg, point, look)
	if !near(got, rl.Vector3{X: 0.70710677, Z: 0.70710677}, 1e-4) {
		t.Errorf("Expected half blend, got %v", got)
	}

	// Without a viewer the blend is ignored.
	got = castDirection(cfg, point, nil)
	if !near(got, rl.Vector3{Z: 1}, 1e-6) {
		t.Errorf("Expected +Z without a viewer, got %v", got)
	}
}
