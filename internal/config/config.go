// Package config loads the static tuning for the fishing scene: a JSON file
// over built-in defaults, then environment overrides, then validation.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"islandquest/internal/pickup"
	"islandquest/internal/puzzle"
	"islandquest/internal/rod"
	"islandquest/internal/tether"

	"github.com/invopop/jsonschema"
	"github.com/joho/godotenv"
)

const EnvPrefix = "ISLANDQUEST_"

type Sim struct {
	TickRate float32 `json:"tickRate" jsonschema:"minimum=1"`
	Gravity  float32 `json:"gravity"`
	FloorY   float32 `json:"floorY"`
	Ticks    int     `json:"ticks" jsonschema:"minimum=0"`
	Scene    string  `json:"scene,omitempty" jsonschema:"description=optional scene file replacing the built-in island layout"`
}

type Telemetry struct {
	Listen   string `json:"listen,omitempty" jsonschema:"description=address for the websocket snapshot stream; empty disables it"`
	Realtime bool   `json:"realtime"`
}

type Config struct {
	Sim        Sim                     `json:"sim"`
	Rod        rod.Config              `json:"rod"`
	Attachment tether.AttachmentConfig `json:"attachment"`
	Reveal     puzzle.KeyRevealConfig  `json:"reveal"`
	Popup      puzzle.PopupConfig      `json:"popup"`
	Holder     pickup.HolderConfig     `json:"holder"`
	Telemetry  Telemetry               `json:"telemetry"`
}

func Default() Config {
	return Config{
		Sim: Sim{
			TickRate: 60,
			Gravity:  -20,
			Ticks:    600,
		},
		Rod:        rod.DefaultConfig(),
		Attachment: tether.DefaultAttachmentConfig(),
		Reveal:     puzzle.DefaultKeyRevealConfig(),
		Popup:      puzzle.DefaultPopupConfig(),
		Holder:     pickup.DefaultHolderConfig(),
	}
}

// DeltaTime is the fixed tick length in seconds.
func (c Config) DeltaTime() float32 {
	return 1 / c.Sim.TickRate
}

// Load reads path over the defaults. An empty path yields the defaults.
// Environment overrides are applied and the result validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

type envVar struct {
	name string
	set  func(c *Config, v string) error
}

func floatVar(name string, field func(c *Config) *float32) envVar {
	return envVar{name: name, set: func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return err
		}
		*field(c) = float32(f)
		return nil
	}}
}

func intVar(name string, field func(c *Config) *int) envVar {
	return envVar{name: name, set: func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}}
}

func boolVar(name string, field func(c *Config) *bool) envVar {
	return envVar{name: name, set: func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}}
}

func stringVar(name string, field func(c *Config) *string) envVar {
	return envVar{name: name, set: func(c *Config, v string) error {
		*field(c) = v
		return nil
	}}
}

var envVars = []envVar{
	floatVar("TICK_RATE", func(c *Config) *float32 { return &c.Sim.TickRate }),
	floatVar("GRAVITY", func(c *Config) *float32 { return &c.Sim.Gravity }),
	intVar("TICKS", func(c *Config) *int { return &c.Sim.Ticks }),
	stringVar("SCENE", func(c *Config) *string { return &c.Sim.Scene }),
	floatVar("CAST_DISTANCE", func(c *Config) *float32 { return &c.Rod.CastDistance }),
	floatVar("ARC_HEIGHT", func(c *Config) *float32 { return &c.Rod.ArcHeight }),
	floatVar("CAST_OUT_TIME", func(c *Config) *float32 { return &c.Rod.CastOutTime }),
	floatVar("REEL_IN_TIME", func(c *Config) *float32 { return &c.Rod.ReelInTime }),
	floatVar("CAMERA_BLEND", func(c *Config) *float32 { return &c.Rod.CameraBlend }),
	floatVar("END_VERTICAL_BIAS", func(c *Config) *float32 { return &c.Rod.EndVerticalBias }),
	floatVar("CAPTURE_DISTANCE", func(c *Config) *float32 { return &c.Attachment.CaptureDistance }),
	intVar("REVEAL_THRESHOLD", func(c *Config) *int { return &c.Reveal.Threshold }),
	stringVar("TELEMETRY_LISTEN", func(c *Config) *string { return &c.Telemetry.Listen }),
	boolVar("TELEMETRY_REALTIME", func(c *Config) *bool { return &c.Telemetry.Realtime }),
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, ev := range envVars {
		v, ok := lookup(EnvPrefix + ev.name)
		if !ok || v == "" {
			continue
		}
		if err := ev.set(c, v); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, ev.name, err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim: tickRate must be > 0, got %v", c.Sim.TickRate)
	}
	if c.Sim.Ticks < 0 {
		return fmt.Errorf("sim: ticks must be >= 0, got %d", c.Sim.Ticks)
	}
	validators := []interface{ Validate() error }{c.Rod, c.Attachment, c.Reveal, c.Popup, c.Holder}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Schema describes the config file for editors and validation tools.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(new(Config))
	schema.Title = "Island Quest Fishing Config"
	schema.Description = "Tuning for the rod, magnet attachment, key reveal and popup crate"
	return schema
}
