package scene

// Node names given to the content scenes build.
const (
	SkyboxName     = "Skybox"
	PlanetName     = "Planet"
	CloudsName     = "Clouds"
	AtmosphereName = "VolumetricSphere"
	SunName        = "Sun"
	SunTargetName  = "SunTarget"
	AmbientName    = "Ambient"
)

// Assets names the files scenes load, relative to the asset root. Empty
// paths are skipped.
type Assets struct {
	Skybox      string  `yaml:"skybox" toml:"skybox"`
	SkyboxScale float32 `yaml:"skybox_scale" toml:"skybox_scale"`
	// Environment is an optional equirectangular map (.hdr, .exr or image).
	Environment string `yaml:"environment" toml:"environment"`

	BaseColor string `yaml:"base_color" toml:"base_color"`
	Normal    string `yaml:"normal" toml:"normal"`
	Roughness string `yaml:"roughness" toml:"roughness"`
	Clouds    string `yaml:"clouds" toml:"clouds"`
}

// DefaultAssets returns the bundled asset layout.
func DefaultAssets() Assets {
	return Assets{
		Skybox:      "/models/inside_galaxy/scene.gltf",
		SkyboxScale: 10,
		BaseColor:   "/textures/BaseColor_NoCloud_Texture.png",
		Normal:      "/textures/Normal_Texture.png",
		Roughness:   "/textures/Roughness_NoCloud_Texture.png",
		Clouds:      "/textures/earth_clouds_8K.png",
	}
}
