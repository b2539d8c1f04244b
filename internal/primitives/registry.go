// Package primitives owns the GPU side of procedural shapes: cached sphere
// meshes and the small set of shaders they are drawn with.
package primitives

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-deck/internal/graph"
)

// maxSegments caps sphere tessellation; denser spheres add nothing at
// window resolution.
const maxSegments = 128

// minSegments keeps degenerate shapes drawable.
const minSegments = 3

type sphereKey struct {
	radius   float32
	segments int
}

// Registry caches meshes and materials. GPU resources are created on first
// use so that they are allocated after the window and OpenGL context exist.
type Registry struct {
	spheres  map[sphereKey]rl.Mesh
	lit      rl.Material
	textured rl.Material
	haze     rl.Material
	loaded   bool
	lighting Lighting
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		spheres: make(map[sphereKey]rl.Mesh),
		lighting: Lighting{
			ToSun:     [3]float32{0.5, 1, 0.5},
			SunColor:  defaultLightColor,
			Intensity: defaultLightIntensity,
			Ambient:   defaultAmbient,
		},
	}
}

// SetLighting sets the light state for this frame. Call once per frame
// before drawing.
func (r *Registry) SetLighting(l Lighting) {
	r.lighting = l
}

// Sphere returns the mesh for shape, generating it on first use.
func (r *Registry) Sphere(shape graph.SphereShape) rl.Mesh {
	seg := min(max(shape.Segments, minSegments), maxSegments)
	key := sphereKey{radius: shape.Radius, segments: seg}
	if m, ok := r.spheres[key]; ok {
		return m
	}
	m := rl.GenMeshSphere(shape.Radius, seg, seg)
	r.spheres[key] = m
	return m
}

func (r *Registry) ensureMaterials() {
	if r.loaded {
		return
	}
	r.loaded = true
	r.lit = material(litFS)
	r.textured = material(litTexturedFS)
	r.haze = material(hazeFS)
}

func material(fs string) rl.Material {
	mtl := rl.LoadMaterialDefault()
	if shader := rl.LoadShaderFromMemory(litVS, fs); rl.IsShaderValid(shader) {
		mtl.Shader = shader
	}
	return mtl
}

// Draw draws mesh with the given surface. Must be called between
// BeginMode3D and EndMode3D.
func (r *Registry) Draw(mesh rl.Mesh, s Surface, transform rl.Matrix) {
	r.ensureMaterials()
	var mtl rl.Material
	switch {
	case s.Haze:
		mtl = r.haze
		setFloat(mtl.Shader, "density", s.Density)
	case s.Albedo != nil && rl.IsTextureValid(*s.Albedo):
		mtl = r.textured
		rl.SetMaterialTexture(&mtl, rl.MapAlbedo, *s.Albedo)
		luma := float32(0)
		if s.LumaAlpha {
			luma = 1
		}
		setFloat(mtl.Shader, "lumaAlpha", luma)
		setFloat(mtl.Shader, "alphaCutoff", s.AlphaTest)
	default:
		mtl = r.lit
	}
	if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = s.Tint
	}
	r.setLitUniforms(mtl.Shader)
	rl.DrawMesh(mesh, mtl, transform)
}

// Unload releases every cached mesh and material.
func (r *Registry) Unload() {
	for k, m := range r.spheres {
		rl.UnloadMesh(&m)
		delete(r.spheres, k)
	}
	if r.loaded {
		for _, mtl := range []rl.Material{r.lit, r.textured, r.haze} {
			rl.UnloadShader(mtl.Shader)
		}
		r.loaded = false
	}
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec3 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient * tint.rgb;
  vec3 H = normalize(L + V);
  float spec = pow(max(dot(N, H), 0.0), specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
	litTexturedFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec3 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
uniform float lumaAlpha;
uniform float alphaCutoff;
uniform sampler2D albedoMap;
out vec4 finalColor;
void main() {
  vec4 texColor = texture(albedoMap, fragTexCoord);
  vec4 tint = texColor * colDiffuse;
  float luma = dot(texColor.rgb, vec3(0.299, 0.587, 0.114));
  tint.a = mix(tint.a, luma * colDiffuse.a, lumaAlpha);
  if (tint.a < alphaCutoff) discard;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient * tint.rgb;
  vec3 H = normalize(L + V);
  float spec = pow(max(dot(N, H), 0.0), specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`
	// hazeFS thickens toward the silhouette where the view ray crosses
	// more of the shell.
	hazeFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform float density;
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  vec3 V = normalize(viewPos - fragPosition);
  float rim = 1.0 - abs(dot(N, V));
  float depth = rim * rim * 40.0;
  float a = 1.0 - exp(-density * depth);
  finalColor = vec4(colDiffuse.rgb, clamp(a, 0.0, 1.0) * colDiffuse.a);
}
`
)

var defaultAmbient = [3]float32{0.2, 0.22, 0.26}

var defaultLightColor = [3]float32{1.0, 0.98, 0.95}

const defaultLightIntensity = float32(0.75)

// defaultSpecularPower controls highlight tightness.
const defaultSpecularPower = float32(48.0)

const defaultSpecularStrength = float32(0.15)

// setLitUniforms pushes the frame lighting into shader (cgo-safe: local arrays).
func (r *Registry) setLitUniforms(shader rl.Shader) {
	if !rl.IsShaderValid(shader) {
		return
	}
	l := r.lighting
	setVec3(shader, "viewPos", l.ViewPos)
	setVec3(shader, "lightDir", l.ToSun)
	setVec3(shader, "lightColor", l.SunColor)
	setVec3(shader, "ambient", l.Ambient)
	setFloat(shader, "lightIntensity", l.Intensity)
	setFloat(shader, "specularPower", defaultSpecularPower)
	setFloat(shader, "specularStrength", defaultSpecularStrength)
}

func setVec3(shader rl.Shader, name string, v [3]float32) {
	if loc := rl.GetShaderLocation(shader, name); loc >= 0 {
		val := [3]float32{v[0], v[1], v[2]}
		rl.SetShaderValueV(shader, loc, val[:], rl.ShaderUniformVec3, 1)
	}
}

func setFloat(shader rl.Shader, name string, v float32) {
	if loc := rl.GetShaderLocation(shader, name); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{v}, rl.ShaderUniformFloat)
	}
}
