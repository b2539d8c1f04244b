package primitives

import rl "github.com/gen2brain/raylib-go/raylib"

// Lighting is the per-frame light state shared by every lit draw.
type Lighting struct {
	ViewPos   [3]float32
	ToSun     [3]float32
	SunColor  [3]float32
	Intensity float32
	Ambient   [3]float32
}

// Surface selects the shader and its per-draw inputs.
type Surface struct {
	Tint   rl.Color
	Albedo *rl.Texture2D
	// LumaAlpha derives coverage from the albedo brightness (cloud maps are
	// greyscale without an alpha channel).
	LumaAlpha bool
	AlphaTest float32
	// Haze draws an exponential rim glow instead of a lit surface.
	Haze    bool
	Density float32
}
