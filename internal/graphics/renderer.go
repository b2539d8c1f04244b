// Package graphics hosts the raylib window and draws scene graphs.
package graphics

import (
	"log/slog"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"scene-deck/internal/asset"
	"scene-deck/internal/graph"
	"scene-deck/internal/primitives"
)

// sunScale maps physically based light intensities onto the 0..1 range the
// forward shaders expect.
const sunScale = 0.2

type modelEntry struct {
	model rl.Model
	ok    bool
}

// Renderer draws scene graphs with raylib. It owns every GPU resource it
// creates and must only be used on the thread that opened the window.
type Renderer struct {
	root     string
	log      *slog.Logger
	prims    *primitives.Registry
	textures map[*graph.Texture]rl.Texture2D
	models   map[string]*modelEntry
	sky      skybox
}

// NewRenderer returns a renderer that resolves model paths against the
// asset root directory.
func NewRenderer(assetRoot string, log *slog.Logger) *Renderer {
	return &Renderer{
		root:     assetRoot,
		log:      log,
		prims:    primitives.NewRegistry(),
		textures: make(map[*graph.Texture]rl.Texture2D),
		models:   make(map[string]*modelEntry),
		sky:      skybox{log: log, textures: make(map[*graph.Environment]rl.Texture2D)},
	}
}

// Render draws root as seen through cam.
func (r *Renderer) Render(root *graph.Node, cam *graph.Camera) {
	if root == nil || cam == nil {
		return
	}
	dl := graph.Collect(root)
	r.prims.SetLighting(lighting(dl.Lighting, cam.Position))

	rl.BeginMode3D(camera3D(cam))
	// BeginMode3D uses the framebuffer aspect and fixed clip planes; the
	// camera's own matrices replace them.
	rl.SetMatrixProjection(matrix(cam.Projection()))
	rl.SetMatrixModelview(matrix(cam.View()))
	if root.Background != nil {
		r.sky.draw(root.Background, cam.Position, cam.Far)
	}
	for _, it := range dl.Opaque {
		r.draw(it)
	}
	for _, it := range dl.Transparent {
		depthWrite := it.Node.Mesh.Material.DepthWrite
		if !depthWrite {
			rl.DisableDepthMask()
		}
		r.draw(it)
		if !depthWrite {
			rl.EnableDepthMask()
		}
	}
	rl.EndMode3D()
}

func (r *Renderer) draw(it graph.Item) {
	mesh := it.Node.Mesh
	twoSided := mesh.Material.DoubleSided || mesh.Model != ""
	if twoSided {
		rl.DisableBackfaceCulling()
		defer rl.EnableBackfaceCulling()
	}
	switch {
	case mesh.Sphere != nil:
		r.prims.Draw(r.prims.Sphere(*mesh.Sphere), r.surface(mesh.Material), matrix(it.World))
	case mesh.Model != "":
		e := r.model(mesh.Model)
		if !e.ok {
			return
		}
		e.model.Transform = matrix(it.World)
		rl.DrawModel(e.model, rl.Vector3{}, 1, rl.White)
	}
}

func (r *Renderer) surface(m graph.Material) primitives.Surface {
	s := primitives.Surface{Tint: m.Color, AlphaTest: m.AlphaTest}
	if m.Density > 0 {
		s.Haze = true
		s.Density = m.Density
		return s
	}
	if m.Map != nil {
		if tex, ok := r.texture(m.Map); ok {
			s.Albedo = &tex
			s.LumaAlpha = m.AlphaMap == m.Map
		}
	}
	return s
}

func (r *Renderer) texture(t *graph.Texture) (rl.Texture2D, bool) {
	if tex, ok := r.textures[t]; ok {
		return tex, rl.IsTextureValid(tex)
	}
	var tex rl.Texture2D
	if t.Image != nil {
		img := rl.NewImageFromImage(t.Image)
		tex = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
	}
	if !rl.IsTextureValid(tex) {
		r.log.Warn("texture upload failed", "path", t.Path)
	}
	r.textures[t] = tex
	return tex, rl.IsTextureValid(tex)
}

func (r *Renderer) model(p string) *modelEntry {
	if e, ok := r.models[p]; ok {
		return e
	}
	e := &modelEntry{}
	e.model = rl.LoadModel(filepath.Join(r.root, filepath.FromSlash(asset.Clean(p))))
	e.ok = rl.IsModelValid(e.model)
	if !e.ok {
		r.log.Warn("model load failed", "path", p)
	}
	r.models[p] = e
	return e
}

// Close releases every GPU resource the renderer created.
func (r *Renderer) Close() {
	for k, tex := range r.textures {
		if rl.IsTextureValid(tex) {
			rl.UnloadTexture(tex)
		}
		delete(r.textures, k)
	}
	for k, e := range r.models {
		if e.ok {
			rl.UnloadModel(e.model)
		}
		delete(r.models, k)
	}
	r.sky.unload()
	r.prims.Unload()
}

func lighting(l graph.Lighting, viewPos mgl32.Vec3) primitives.Lighting {
	out := primitives.Lighting{
		ViewPos: viewPos,
		Ambient: l.Ambient,
	}
	if l.HasSun {
		out.ToSun = l.ToSun
		out.SunColor = l.SunColor
		out.Intensity = l.Intensity * sunScale
	}
	return out
}

func camera3D(c *graph.Camera) rl.Camera3D {
	target := c.Target()
	up := c.Up()
	return rl.Camera3D{
		Position:   rl.NewVector3(c.Position[0], c.Position[1], c.Position[2]),
		Target:     rl.NewVector3(target[0], target[1], target[2]),
		Up:         rl.NewVector3(up[0], up[1], up[2]),
		Fovy:       c.ProjectionFov(),
		Projection: rl.CameraPerspective,
	}
}

// matrix converts a column-major mgl32 matrix; raylib names its elements
// in the same memory order.
func matrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}
