// Package config loads and saves the deck configuration. The format is
// picked from the file extension: .yaml/.yml or .toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"scene-deck/internal/anim"
	"scene-deck/internal/scene"
)

// DefaultPath is the config file used when none is given, relative to the
// working directory.
const DefaultPath = "config/deck.yaml"

// ErrFormat is returned for config files with an unknown extension.
var ErrFormat = errors.New("unknown config format")

// Config is the whole deck configuration.
type Config struct {
	Window  Window     `yaml:"window" toml:"window"`
	Assets  Assets     `yaml:"assets" toml:"assets"`
	Menu    Animation  `yaml:"menu" toml:"menu"`
	Items   []MenuItem `yaml:"items" toml:"items"`
	Console Console    `yaml:"console" toml:"console"`
}

// Window holds the host window settings.
type Window struct {
	Title      string `yaml:"title" toml:"title"`
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	FPS        int    `yaml:"fps" toml:"fps"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
}

// Assets locates the asset tree and the files the scenes load.
type Assets struct {
	// Root is the directory asset paths are resolved against.
	Root           string       `yaml:"root" toml:"root"`
	MaxTextureSize int          `yaml:"max_texture_size" toml:"max_texture_size"`
	Scene          scene.Assets `yaml:"scene" toml:"scene"`
}

// Animation mirrors anim.Params in file-friendly units.
type Animation struct {
	IntroFov     float32 `yaml:"intro_fov" toml:"intro_fov"`
	FovFloor     float32 `yaml:"fov_floor" toml:"fov_floor"`
	FovStep      float32 `yaml:"fov_step" toml:"fov_step"`
	ScaleStart   float32 `yaml:"scale_start" toml:"scale_start"`
	ScaleCeiling float32 `yaml:"scale_ceiling" toml:"scale_ceiling"`
	ScaleStep    float32 `yaml:"scale_step" toml:"scale_step"`

	CompanionGrowth  float32 `yaml:"companion_growth" toml:"companion_growth"`
	CompanionCeiling float32 `yaml:"companion_ceiling" toml:"companion_ceiling"`
	ShellGrowth      float32 `yaml:"shell_growth" toml:"shell_growth"`
	ShellCeiling     float32 `yaml:"shell_ceiling" toml:"shell_ceiling"`

	SpinAxis      [3]float32 `yaml:"spin_axis,flow" toml:"spin_axis"`
	PrimarySpin   float32    `yaml:"primary_spin" toml:"primary_spin"`
	CompanionSpin float32    `yaml:"companion_spin" toml:"companion_spin"`

	SlerpFactor float32 `yaml:"slerp_factor" toml:"slerp_factor"`
	Epsilon     float32 `yaml:"epsilon" toml:"epsilon"`

	ResetTarget [3]float32 `yaml:"reset_target,flow" toml:"reset_target"`
	ResetMs     int        `yaml:"reset_ms" toml:"reset_ms"`
}

// MenuItem is an overlay entry. Clicking it turns the planet and camera
// toward Anchor.
type MenuItem struct {
	Label  string     `yaml:"label" toml:"label"`
	Anchor [3]float32 `yaml:"anchor,flow" toml:"anchor"`
	// Scene, when set, is opened on click instead.
	Scene string `yaml:"scene,omitempty" toml:"scene,omitempty"`
}

// Console configures the in-window command console.
type Console struct {
	Enabled    bool   `yaml:"enabled" toml:"enabled"`
	Stylesheet string `yaml:"stylesheet" toml:"stylesheet"`
	ShowHUD    bool   `yaml:"show_hud" toml:"show_hud"`
	// Font is a family name or file searched for under <assets>/fonts.
	Font string `yaml:"font,omitempty" toml:"font,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{Title: "scene-deck", Width: 1280, Height: 720, FPS: 60},
		Assets: Assets{
			Root:           "assets",
			MaxTextureSize: 4096,
			Scene:          scene.DefaultAssets(),
		},
		Menu: AnimationFrom(anim.DefaultParams()),
		Items: []MenuItem{
			{Label: "About", Anchor: [3]float32{-2, 1.5, 0}},
			{Label: "Projects", Anchor: [3]float32{2, 1, -1}},
			{Label: "Contact", Anchor: [3]float32{0, -2, 1}},
			{Label: "Portfolio", Scene: scene.PortfolioLabel},
		},
		Console: Console{Enabled: true, Stylesheet: "config/menu.css", ShowHUD: true, Font: "Inter"},
	}
}

// AnimationFrom converts animation parameters to their file form.
func AnimationFrom(p anim.Params) Animation {
	return Animation{
		IntroFov:         p.IntroFov,
		FovFloor:         p.FovFloor,
		FovStep:          p.FovStep,
		ScaleStart:       p.ScaleStart,
		ScaleCeiling:     p.ScaleCeiling,
		ScaleStep:        p.ScaleStep,
		CompanionGrowth:  p.CompanionGrowth,
		CompanionCeiling: p.CompanionCeiling,
		ShellGrowth:      p.ShellGrowth,
		ShellCeiling:     p.ShellCeiling,
		SpinAxis:         p.SpinAxis,
		PrimarySpin:      p.PrimarySpin,
		CompanionSpin:    p.CompanionSpin,
		SlerpFactor:      p.SlerpFactor,
		Epsilon:          p.Epsilon,
		ResetTarget:      p.ResetTarget,
		ResetMs:          int(p.ResetDuration / time.Millisecond),
	}
}

// Params converts the file form back to animation parameters. The
// reference axes are not configurable.
func (a Animation) Params() anim.Params {
	p := anim.DefaultParams()
	p.IntroFov = a.IntroFov
	p.FovFloor = a.FovFloor
	p.FovStep = a.FovStep
	p.ScaleStart = a.ScaleStart
	p.ScaleCeiling = a.ScaleCeiling
	p.ScaleStep = a.ScaleStep
	p.CompanionGrowth = a.CompanionGrowth
	p.CompanionCeiling = a.CompanionCeiling
	p.ShellGrowth = a.ShellGrowth
	p.ShellCeiling = a.ShellCeiling
	p.SpinAxis = mgl32.Vec3(a.SpinAxis)
	p.PrimarySpin = a.PrimarySpin
	p.CompanionSpin = a.CompanionSpin
	p.SlerpFactor = a.SlerpFactor
	p.Epsilon = a.Epsilon
	p.ResetTarget = mgl32.Vec3(a.ResetTarget)
	p.ResetDuration = time.Duration(a.ResetMs) * time.Millisecond
	return p
}

type codec struct {
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

func codecFor(path string) (codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return codec{yaml.Marshal, yaml.Unmarshal}, nil
	case ".toml":
		return codec{toml.Marshal, toml.Unmarshal}, nil
	}
	return codec{}, fmt.Errorf("%s: %w", path, ErrFormat)
}

// Load reads the config at path on top of Default. A missing file yields
// the defaults without error. Animation values that would stall the menu are
// rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	c, err := codecFor(path)
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := c.unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Menu.Params().Validate(); err != nil {
		return Default(), fmt.Errorf("%s menu: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := c.marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Overrides are command-line settings. Zero values leave the config alone.
type Overrides struct {
	Width  int
	Height int
	FPS    int
	Root   string
}

// Apply merges o into cfg, skipping unset fields.
func (cfg *Config) Apply(o Overrides) error {
	win := Window{Width: o.Width, Height: o.Height, FPS: o.FPS}
	if err := copier.CopyWithOption(&cfg.Window, &win, copier.Option{IgnoreEmpty: true}); err != nil {
		return err
	}
	assets := Assets{Root: o.Root}
	return copier.CopyWithOption(&cfg.Assets, &assets, copier.Option{IgnoreEmpty: true})
}
