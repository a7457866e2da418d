package rod

import (
	"islandquest/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

const minDirLengthSqr = 0.0001

// castDirection builds the world-space throw direction from the attach
// point's local direction, optionally blended toward where the viewer looks.
func castDirection(cfg Config, attachPoint *engine.GameObject, viewer engine.LookProvider) rl.Vector3 {
	dir := attachPoint.TransformDirection(cfg.LocalDirection)
	if cfg.FlattenY {
		dir.Y = 0
	}
	if cfg.NormalizeDirection && rl.Vector3DotProduct(dir, dir) > minDirLengthSqr {
		dir = rl.Vector3Normalize(dir)
	}

	if cfg.CameraBlend > 0 && viewer != nil {
		x, y, z := viewer.GetLookDirection()
		look := rl.Vector3{X: x, Y: y, Z: z}
		if cfg.FlattenY {
			look.Y = 0
		}
		if rl.Vector3DotProduct(look, look) > minDirLengthSqr {
			dir = slerpDirection(dir, rl.Vector3Normalize(look), cfg.CameraBlend)
			if cfg.NormalizeDirection && rl.Vector3DotProduct(dir, dir) > minDirLengthSqr {
				dir = rl.Vector3Normalize(dir)
			}
		}
	}
	return dir
}

// slerpDirection rotates from toward to by fraction t of the angle between
// them. The length of from is kept.
func slerpDirection(from, to rl.Vector3, t float32) rl.Vector3 {
	if t <= 0 || rl.Vector3DotProduct(from, from) <= minDirLengthSqr {
		return from
	}
	a := mgl32.Vec3{from.X, from.Y, from.Z}
	b := mgl32.Vec3{to.X, to.Y, to.Z}
	length := a.Len()

	q := mgl32.QuatBetweenVectors(a.Normalize(), b.Normalize())
	r := mgl32.QuatSlerp(mgl32.QuatIdent(), q, mgl32.Clamp(t, 0, 1))
	out := r.Rotate(a.Normalize()).Mul(length)
	return rl.Vector3{X: out[0], Y: out[1], Z: out[2]}
}
