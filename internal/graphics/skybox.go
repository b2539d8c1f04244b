package graphics

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"scene-deck/internal/asset"
	"scene-deck/internal/graph"
)

// skybox draws equirectangular scene backgrounds on a cube centred on the
// camera. Textures are uploaded once per environment.
type skybox struct {
	log       *slog.Logger
	textures  map[*graph.Environment]rl.Texture2D
	mesh      rl.Mesh
	mtl       rl.Material
	shader    rl.Shader
	camPosLoc int32
	texLoc    int32
	loaded    bool
	failed    bool
}

func (s *skybox) ensureLoaded() bool {
	if s.loaded || s.failed {
		return s.loaded
	}
	shader := rl.LoadShaderFromMemory(equirectVS, equirectFS)
	if !rl.IsShaderValid(shader) {
		s.failed = true
		s.log.Warn("skybox shader failed to compile")
		return false
	}
	s.shader = shader
	s.mesh = rl.GenMeshCube(1, 1, 1)
	s.mtl = rl.LoadMaterialDefault()
	s.mtl.Shader = shader
	s.camPosLoc = rl.GetShaderLocation(shader, "cameraPosition")
	s.texLoc = rl.GetShaderLocation(shader, "skybox")
	s.loaded = true
	return true
}

func (s *skybox) texture(env *graph.Environment) (rl.Texture2D, bool) {
	if tex, ok := s.textures[env]; ok {
		return tex, rl.IsTextureValid(tex)
	}
	var tex rl.Texture2D
	if img := asset.Preview(env); img != nil {
		rimg := rl.NewImageFromImage(img)
		tex = rl.LoadTextureFromImage(rimg)
		rl.UnloadImage(rimg)
	} else {
		s.log.Info("background has no preview; drawing without it", "path", env.Path, "format", env.Format)
	}
	s.textures[env] = tex
	return tex, rl.IsTextureValid(tex)
}

// draw renders env around camPos. The unit cube is scaled to far, which
// keeps its corners (at 0.87 far) inside the clip volume.
func (s *skybox) draw(env *graph.Environment, camPos mgl32.Vec3, far float32) {
	tex, ok := s.texture(env)
	if !ok || !s.ensureLoaded() {
		return
	}
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	transform := rl.MatrixMultiply(
		rl.MatrixScale(far, far, far),
		rl.MatrixTranslate(camPos[0], camPos[1], camPos[2]),
	)
	if s.camPosLoc >= 0 {
		pos := []float32{camPos[0], camPos[1], camPos[2]}
		rl.SetShaderValueV(s.shader, s.camPosLoc, pos, rl.ShaderUniformVec3, 1)
	}
	if s.texLoc >= 0 {
		rl.SetShaderValueTexture(s.shader, s.texLoc, tex)
	}
	rl.DrawMesh(s.mesh, s.mtl, transform)
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
}

func (s *skybox) unload() {
	for k, tex := range s.textures {
		if rl.IsTextureValid(tex) {
			rl.UnloadTexture(tex)
		}
		delete(s.textures, k)
	}
	if s.loaded {
		rl.UnloadMesh(&s.mesh)
		rl.UnloadShader(s.shader)
		s.loaded = false
	}
}

// Equirectangular skybox shader: samples a 2D panorama by view direction.
const (
	equirectVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragWorldPos;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragWorldPos = worldPos.xyz;
  gl_Position = matProjection * matView * worldPos;
}
`
	equirectFS = `#version 330
in vec3 fragWorldPos;
out vec4 finalColor;
uniform sampler2D skybox;
uniform vec3 cameraPosition;
void main() {
  vec3 dir = normalize(fragWorldPos - cameraPosition);
  float lon = atan(dir.z, dir.x);
  float lat = asin(clamp(dir.y, -1.0, 1.0));
  float u = lon / 6.28318530718 + 0.5;
  float v = 0.5 - lat / 3.14159265359;
  finalColor = texture(skybox, vec2(u, v));
}
`
)
