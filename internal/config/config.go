// Package config handles viewer configuration loading and management.
package config

import (
	"math"
	"strconv"
	"strings"

	"github.com/Faultbox/holocard/internal/fault"
)

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Card        CardConfig        `yaml:"card"`
	Controls    ControlsConfig    `yaml:"controls"`
	Camera      CameraConfig      `yaml:"camera"`
	Assets      AssetsConfig      `yaml:"assets"`
	Screenshots ScreenshotsConfig `yaml:"screenshots"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	HighDPI    bool   `yaml:"high_dpi"`
	FPSLimit   int    `yaml:"fps_limit"` // 0 = follow vsync
	Background string `yaml:"background"`
}

// CardConfig describes the blended card and its frame.
type CardConfig struct {
	Textures       []string `yaml:"textures"`         // In blend order
	Width          float32  `yaml:"width"`            // World units; height follows image aspect
	FrameThickness float32  `yaml:"frame_thickness"`
	FrameColor     string   `yaml:"frame_color"`
	FrameMetalness float32  `yaml:"frame_metalness"`
	FrameRoughness float32  `yaml:"frame_roughness"`
	OrbitRange     float64  `yaml:"orbit_range_per_cycle"` // Radians mapped onto one full blend cycle
}

// ControlsConfig configures the orbit controls.
type ControlsConfig struct {
	Damping       bool    `yaml:"damping"`
	DampingFactor float64 `yaml:"damping_factor"`
	ZoomLocked    bool    `yaml:"zoom_locked"`
	RotateSpeed   float64 `yaml:"rotate_speed"`
}

// CameraConfig holds perspective camera parameters.
type CameraConfig struct {
	FOV      float32 `yaml:"fov"` // Vertical, degrees
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
	Distance float32 `yaml:"distance"`
}

// AssetsConfig lists directories texture paths are resolved against.
// Later entries take priority.
type AssetsConfig struct {
	Dirs []string `yaml:"dirs"`
}

// ScreenshotsConfig controls F12 captures.
type ScreenshotsConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			HighDPI:    true,
			FPSLimit:   0,
			Background: "#000000",
		},
		Card: CardConfig{
			Textures:       []string{"1.png", "2.png", "3.png"},
			Width:          3,
			FrameThickness: 0.1,
			FrameColor:     "#6C767C",
			FrameMetalness: 0.4,
			FrameRoughness: 0.2,
			OrbitRange:     math.Pi / 2,
		},
		Controls: ControlsConfig{
			Damping:       true,
			DampingFactor: 0.05,
			ZoomLocked:    true,
			RotateSpeed:   1.0,
		},
		Camera: CameraConfig{
			FOV:      75,
			Near:     0.1,
			Far:      100,
			Distance: 5,
		},
		Assets: AssetsConfig{
			Dirs: []string{"static"},
		},
		Screenshots: ScreenshotsConfig{
			Dir:    "screenshots",
			Prefix: "holocard",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings that would make the scene impossible to build.
func (c *Config) Validate() error {
	switch {
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fault.Configf("window size %dx%d", c.Graphics.Width, c.Graphics.Height)
	case len(c.Card.Textures) == 0:
		return fault.Configf("card.textures is empty")
	case !(c.Card.Width > 0):
		return fault.Configf("card.width %v must be positive", c.Card.Width)
	case c.Card.FrameThickness < 0:
		return fault.Configf("card.frame_thickness %v is negative", c.Card.FrameThickness)
	case !(c.Card.OrbitRange > 0) || math.IsInf(c.Card.OrbitRange, 0):
		return fault.Configf("card.orbit_range_per_cycle %v must be positive", c.Card.OrbitRange)
	case !unit(c.Card.FrameMetalness):
		return fault.Configf("card.frame_metalness %v outside [0, 1]", c.Card.FrameMetalness)
	case !unit(c.Card.FrameRoughness):
		return fault.Configf("card.frame_roughness %v outside [0, 1]", c.Card.FrameRoughness)
	case c.Controls.DampingFactor < 0 || c.Controls.DampingFactor > 1:
		return fault.Configf("controls.damping_factor %v outside [0, 1]", c.Controls.DampingFactor)
	case !(c.Camera.FOV > 0 && c.Camera.FOV < 180):
		return fault.Configf("camera.fov %v outside (0, 180)", c.Camera.FOV)
	case !(c.Camera.Near > 0) || c.Camera.Far <= c.Camera.Near:
		return fault.Configf("camera clip range [%v, %v]", c.Camera.Near, c.Camera.Far)
	case !(c.Camera.Distance > 0):
		return fault.Configf("camera.distance %v must be positive", c.Camera.Distance)
	case c.Graphics.FPSLimit < 0:
		return fault.Configf("graphics.fps_limit %d is negative", c.Graphics.FPSLimit)
	}
	for i, p := range c.Card.Textures {
		if strings.TrimSpace(p) == "" {
			return fault.Configf("card.textures[%d] is blank", i)
		}
	}
	if _, err := ParseColor(c.Card.FrameColor); err != nil {
		return err
	}
	if _, err := ParseColor(c.Graphics.Background); err != nil {
		return err
	}
	return nil
}

func unit(v float32) bool {
	return v >= 0 && v <= 1
}

// ParseColor parses "#RRGGBB" or "0xRRGGBB" into normalized RGB.
func ParseColor(s string) ([3]float32, error) {
	hex := strings.TrimSpace(s)
	for _, prefix := range []string{"#", "0x", "0X"} {
		if strings.HasPrefix(hex, prefix) {
			hex = hex[len(prefix):]
			break
		}
	}
	if len(hex) != 6 {
		return [3]float32{}, fault.Configf("color %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [3]float32{}, fault.Configf("color %q: %v", s, err)
	}
	return [3]float32{
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}
