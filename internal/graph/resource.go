package graph

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Texture is a decoded 2D image.
type Texture struct {
	Path  string
	Image *image.RGBA
	// SRGB marks colour data (base colour maps) as opposed to linear data
	// such as normal or roughness maps.
	SRGB bool
}

// EnvFormat identifies how an environment map was encoded on disk.
type EnvFormat int

const (
	EnvImage EnvFormat = iota
	EnvHDR
	EnvEXR
)

func (f EnvFormat) String() string {
	switch f {
	case EnvHDR:
		return "hdr"
	case EnvEXR:
		return "exr"
	default:
		return "image"
	}
}

// Environment is an equirectangular map used as a background and optionally
// as the lighting environment.
type Environment struct {
	Path   string
	Format EnvFormat
	Width  int
	Height int

	// Pixels holds linear RGB triples for EnvHDR and EnvEXR.
	Pixels []float32
	// Image holds the decoded picture for EnvImage.
	Image *image.RGBA
}

// SphereShape is a UV sphere.
type SphereShape struct {
	Radius   float32
	Segments int
}

// Material describes a physically based surface.
type Material struct {
	Color        color.RGBA
	Map          *Texture
	NormalMap    *Texture
	RoughnessMap *Texture
	AlphaMap     *Texture
	Metalness    float32
	Roughness    float32
	Transparent  bool
	DoubleSided  bool
	DepthWrite   bool
	AlphaTest    float32
	// Density drives the exponential haze of volumetric shells.
	Density float32
}

// Mesh is a drawable: a procedural shape, or an external model file the
// rendering backend loads itself (Model is a path relative to the asset root).
type Mesh struct {
	Sphere   *SphereShape
	Model    string
	Material Material
}

// LightKind selects the light model.
type LightKind int

const (
	Directional LightKind = iota
	Ambient
)

// Shadow configures shadow mapping for a directional light.
type Shadow struct {
	MapSize    int
	Near, Far  float32
	Extent     float32
	Bias       float32
	NormalBias float32
}

// Light is a light source payload.
type Light struct {
	Kind      LightKind
	Color     color.RGBA
	Intensity float32
	Target    mgl32.Vec3
	Shadow    *Shadow
}
