package scene

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"scene-deck/internal/anim"
	"scene-deck/internal/asset"
	"scene-deck/internal/clock"
	"scene-deck/internal/graph"
)

// MenuLabel is the label of the menu scene.
const MenuLabel = "MainMenu"

var (
	planetPosition = mgl32.Vec3{3.25, -1.75, 1}
	sunPosition    = mgl32.Vec3{-8, 2, -3}
	sunColor       = color.RGBA{R: 0xF4, G: 0xE9, B: 0x9B, A: 0xFF}
	hazeColor      = color.RGBA{R: 0x33, G: 0x99, B: 0xFF, A: 0xFF}
	// fallbackPlanet is used when the base colour map cannot be loaded.
	fallbackPlanet = color.RGBA{R: 0x3A, G: 0x6E, B: 0xA5, A: 0xFF}
)

const (
	sunIntensity     = 5
	ambientIntensity = 0.2
	hazeDensity      = 0.05
)

// Menu is the animated planet scene. Pointer events from the menu overlay
// are forwarded to its animation state machine.
type Menu struct {
	*Base
	loader asset.Loader
	assets Assets
	clock  clock.Clock
	anim   *anim.Menu
}

// NewMenu returns an uninitialized menu scene. clk must be the clock the
// frame loop ticks with.
func NewMenu(loader asset.Loader, assets Assets, params anim.Params, clk clock.Clock, log *slog.Logger) *Menu {
	return &Menu{
		Base:   NewBase(MenuLabel, log),
		loader: loader,
		assets: assets,
		clock:  clk,
		anim:   anim.NewMenu(params, clk),
	}
}

type planetMaps struct {
	base, normal, roughness, clouds *graph.Texture
}

func (m *Menu) Init(ctx context.Context) error {
	return m.load(ctx, func(ctx context.Context) (func(), error) {
		sky, err := m.loadSkybox(ctx, m.loader, m.assets.Skybox, m.assets.SkyboxScale)
		if err != nil {
			return nil, err
		}
		background, lighting, err := m.loadEnvironment(ctx, m.loader, m.assets.Environment)
		if err != nil {
			return nil, err
		}
		maps, err := m.loadMaps(ctx)
		if err != nil {
			return nil, err
		}

		planet, clouds, atmosphere := buildPlanet(maps)
		sun, target, ambient := buildLights()
		return func() {
			if sky != nil {
				m.root.Add(sky)
			}
			m.root.Background, m.root.Environment = background, lighting
			m.root.Add(planet)
			m.root.Add(clouds)
			m.root.Add(atmosphere)
			m.root.Add(target)
			m.root.Add(sun)
			m.root.Add(ambient)
			m.anim.Start(anim.Rig{
				Camera:    m.camera,
				Primary:   planet,
				Companion: clouds,
				Shell:     atmosphere,
			})
		}, nil
	})
}

// loadMaps loads the planet textures concurrently. Missing maps are reported
// together and leave the material untextured.
func (m *Menu) loadMaps(ctx context.Context) (planetMaps, error) {
	var maps planetMaps
	jobs := []struct {
		path string
		srgb bool
		dst  **graph.Texture
	}{
		{m.assets.BaseColor, true, &maps.base},
		{m.assets.Normal, false, &maps.normal},
		{m.assets.Roughness, false, &maps.roughness},
		{m.assets.Clouds, true, &maps.clouds},
	}
	failed := make([]error, len(jobs))

	var g errgroup.Group
	for i, job := range jobs {
		if job.path == "" || m.loader == nil {
			continue
		}
		g.Go(func() error {
			tex, err := m.loader.LoadTexture(ctx, job.path)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				failed[i] = err
				return nil
			}
			tex.SRGB = job.srgb
			*job.dst = tex
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return planetMaps{}, err
	}
	if err := m.optional(ctx, "planet textures", errors.Join(failed...)); err != nil {
		return planetMaps{}, err
	}
	return maps, nil
}

func buildPlanet(maps planetMaps) (planet, clouds, atmosphere *graph.Node) {
	planetMat := graph.Material{
		Color:        color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		Map:          maps.base,
		NormalMap:    maps.normal,
		RoughnessMap: maps.roughness,
		Metalness:    0,
		Roughness:    1,
		DepthWrite:   true,
	}
	if maps.base == nil {
		planetMat.Color = fallbackPlanet
	}
	planet = graph.NewNode(PlanetName)
	planet.Mesh = &graph.Mesh{Sphere: &graph.SphereShape{Radius: 1, Segments: 512}, Material: planetMat}

	clouds = graph.NewNode(CloudsName)
	clouds.Mesh = &graph.Mesh{
		Sphere: &graph.SphereShape{Radius: 1.01, Segments: 128},
		Material: graph.Material{
			Color:       color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
			Map:         maps.clouds,
			AlphaMap:    maps.clouds,
			Transparent: true,
			DoubleSided: true,
			AlphaTest:   0.1,
			Roughness:   1,
		},
	}
	// Without a cloud map the layer would cover the planet in white.
	clouds.Visible = maps.clouds != nil

	atmosphere = graph.NewNode(AtmosphereName)
	atmosphere.Mesh = &graph.Mesh{
		Sphere: &graph.SphereShape{Radius: 1.01, Segments: 128},
		Material: graph.Material{
			Color:       hazeColor,
			Transparent: true,
			DoubleSided: true,
			Density:     hazeDensity,
		},
	}

	for _, n := range []*graph.Node{planet, clouds} {
		n.CastShadow = true
		n.ReceiveShadow = true
	}
	for _, n := range []*graph.Node{planet, clouds, atmosphere} {
		n.Position = planetPosition
	}
	return planet, clouds, atmosphere
}

func buildLights() (sun, target, ambient *graph.Node) {
	target = graph.NewNode(SunTargetName)

	sun = graph.NewNode(SunName)
	sun.Position = sunPosition
	sun.CastShadow = true
	sun.Light = &graph.Light{
		Kind:      graph.Directional,
		Color:     sunColor,
		Intensity: sunIntensity,
		Target:    target.Position,
		Shadow: &graph.Shadow{
			MapSize:    2048,
			Near:       0.5,
			Far:        1000,
			Extent:     5,
			Bias:       -0.0005,
			NormalBias: 0.02,
		},
	}

	ambient = graph.NewNode(AmbientName)
	ambient.Light = &graph.Light{Kind: graph.Ambient, Color: sunColor, Intensity: ambientIntensity}
	return sun, target, ambient
}

// Tick commits loaded content and advances the animation.
func (m *Menu) Tick(now time.Time) {
	if !m.commit() {
		return
	}
	m.anim.Tick(now)
}

// SetHovering forwards the overlay hover state.
func (m *Menu) SetHovering(v bool) { m.anim.SetHovering(v) }

// SelectTarget turns the planet and camera toward a world point.
func (m *Menu) SelectTarget(point mgl32.Vec3) { m.anim.SelectTarget(point) }

// ResetCamera eases the camera back toward the scene centre.
func (m *Menu) ResetCamera() { m.anim.ResetCamera() }

// ReplayIntro rewinds and replays the intro zoom.
func (m *Menu) ReplayIntro() { m.anim.ReplayIntro() }

// SkipIntro jumps to the end of the intro zoom.
func (m *Menu) SkipIntro() { m.anim.SetIntroDone(true) }

// Status is a one-line summary for the HUD: mode, field of view, hover,
// planet spin angle and the time left on a camera reset.
func (m *Menu) Status() string {
	st := m.anim.State()
	var b strings.Builder
	fmt.Fprintf(&b, "%s fov=%.1f", st.Mode, m.camera.FovY)
	if st.Hovering {
		b.WriteString(" hover")
	}
	if planet := m.root.Find(PlanetName); planet != nil {
		_, angle := planet.AxisAngle()
		fmt.Fprintf(&b, " spin=%.2fdeg", mgl32.RadToDeg(angle))
	}
	if r := st.Reset; r != nil {
		left := max(r.StartedAt.Add(r.Duration).Sub(m.clock.Now()), 0)
		fmt.Fprintf(&b, " reset=%s", left.Round(time.Millisecond))
	}
	return b.String()
}

var _ Scene = (*Menu)(nil)
