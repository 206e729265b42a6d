package deepimage

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/deepimage/rt/gizmo"
)

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type CameraConfig struct {
	Fov      float32 `yaml:"fov"`
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
	Distance float32 `yaml:"distance"`
	Yaw      float32 `yaml:"yaw"`
	Pitch    float32 `yaml:"pitch"`

	OrbitSensitivity float32 `yaml:"orbit_sensitivity"`
	PanSensitivity   float32 `yaml:"pan_sensitivity"`
	ZoomFactor       float32 `yaml:"zoom_factor"`
}

type GridConfig struct {
	Rows  int        `yaml:"rows"`
	Cols  int        `yaml:"cols"`
	Cell  float32    `yaml:"cell"`
	Light [4]float32 `yaml:"light"`
	Dark  [4]float32 `yaml:"dark"`
}

// Config is the editor's YAML configuration.
type Config struct {
	Window     WindowConfig `yaml:"window"`
	Camera     CameraConfig `yaml:"camera"`
	Background [4]float32   `yaml:"background"`
	Selected   [4]float32   `yaml:"selected"`
	Grid       GridConfig   `yaml:"grid"`
	Gizmo      string       `yaml:"gizmo"`
	Cull       bool         `yaml:"cull"`
	Debug      bool         `yaml:"debug"`
	Scene      SceneDef     `yaml:"scene"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "DeepImage"},
		Camera: CameraConfig{
			Fov:              45,
			Near:             0.1,
			Far:              1000,
			Distance:         14,
			Yaw:              30,
			Pitch:            25,
			OrbitSensitivity: 0.005,
			PanSensitivity:   0.0015,
			ZoomFactor:       0.9,
		},
		Background: [4]float32{0.7, 0.7, 0.7, 1},
		Selected:   [4]float32{0, 1, 0, 1},
		Grid: GridConfig{
			Rows:  10,
			Cols:  10,
			Cell:  1,
			Light: [4]float32{0.9, 0.9, 0.9, 1},
			Dark:  [4]float32{0.45, 0.45, 0.45, 1},
		},
		Gizmo: gizmo.Translate.String(),
		Cull:  true,
		Scene: DefaultScene(),
	}
}

// LoadConfig reads path, falling back to defaults when the file does not exist.
// Fields missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		return fmt.Errorf("camera near %v must be in (0, far=%v)", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return fmt.Errorf("camera fov %v out of range", c.Camera.Fov)
	}
	if c.Grid.Rows < 0 || c.Grid.Cols < 0 || c.Grid.Cell < 0 {
		return fmt.Errorf("grid %dx%d cell %v must not be negative", c.Grid.Rows, c.Grid.Cols, c.Grid.Cell)
	}
	if _, err := gizmo.ParseVariant(c.Gizmo); err != nil {
		return err
	}
	return c.Scene.Validate()
}

// GizmoVariant is the configured initial variant. Validate has already checked it.
func (c Config) GizmoVariant() gizmo.Variant {
	v, _ := gizmo.ParseVariant(c.Gizmo)
	return v
}

func vec4(v [4]float32) mgl32.Vec4 { return mgl32.Vec4(v) }
