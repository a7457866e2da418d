package rod

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Config holds the rod's direction and throw-feel tuning.
type Config struct {
	// Direction
	LocalDirection     rl.Vector3 `json:"localDirection"`
	NormalizeDirection bool       `json:"normalizeDirection"`
	FlattenY           bool       `json:"flattenY"`
	CameraBlend        float32    `json:"cameraBlend" jsonschema:"minimum=0,maximum=1"`
	EndVerticalBias    float32    `json:"endVerticalBias"`

	// Throw feel
	CastDistance float32 `json:"castDistance"`
	ArcHeight    float32 `json:"arcHeight"`
	CastOutTime  float32 `json:"castOutTime"`
	ReelInTime   float32 `json:"reelInTime"`

	// Line
	LineSlack   bool    `json:"lineSlack"`
	SlackAmount float32 `json:"slackAmount"`
}

func DefaultConfig() Config {
	return Config{
		LocalDirection:     rl.Vector3{X: 0, Y: 0, Z: 1},
		NormalizeDirection: true,
		FlattenY:           true,
		CameraBlend:        0,
		EndVerticalBias:    -0.25,
		CastDistance:       10,
		ArcHeight:          3,
		CastOutTime:        0.8,
		ReelInTime:         0.8,
		SlackAmount:        0.25,
	}
}

func (c Config) Validate() error {
	if c.CameraBlend < 0 || c.CameraBlend > 1 {
		return fmt.Errorf("rod: cameraBlend must be within [0, 1], got %v", c.CameraBlend)
	}
	if c.CastDistance < 0 {
		return fmt.Errorf("rod: castDistance must be >= 0, got %v", c.CastDistance)
	}
	if c.CastOutTime < 0 || c.ReelInTime < 0 {
		return fmt.Errorf("rod: phase times must be >= 0, got cast %v reel %v", c.CastOutTime, c.ReelInTime)
	}
	return nil
}
