package anim

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ArcOffset is the parabolic lift 4*h*u*(1-u): zero at both ends, h at u=0.5.
func ArcOffset(height, u float32) float32 {
	return 4 * height * u * (1 - u)
}

// SineOffset is the half-sine lift sin(pi*u)*h.
func SineOffset(height, u float32) float32 {
	return float32(math.Sin(float64(u)*math.Pi)) * height
}

// Lerp interpolates start to end and returns the endpoints exactly at u<=0 and u>=1.
func Lerp(start, end rl.Vector3, u float32) rl.Vector3 {
	if u <= 0 {
		return start
	}
	if u >= 1 {
		return end
	}
	return rl.Vector3Lerp(start, end, u)
}

// Arc is Lerp plus a vertical parabolic lift peaking at height.
func Arc(start, end rl.Vector3, height, u float32) rl.Vector3 {
	if u <= 0 {
		return start
	}
	if u >= 1 {
		return end
	}
	p := rl.Vector3Lerp(start, end, u)
	p.Y += ArcOffset(height, u)
	return p
}

// SineArc is Lerp plus a half-sine lift.
func SineArc(start, end rl.Vector3, height, u float32) rl.Vector3 {
	if u <= 0 {
		return start
	}
	if u >= 1 {
		return end
	}
	p := rl.Vector3Lerp(start, end, u)
	p.Y += SineOffset(height, u)
	return p
}
