package graph

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meshNode(name string, transparent bool) *Node {
	n := NewNode(name)
	n.Mesh = &Mesh{Sphere: &SphereShape{Radius: 1, Segments: 8}, Material: Material{Transparent: transparent}}
	return n
}

func TestCollectOrdersTransparentLast(t *testing.T) {
	root := NewNode("root")
	glass := meshNode("glass", true)
	rock := meshNode("rock", false)
	root.Add(glass)
	root.Add(rock)

	dl := Collect(root)
	require.Len(t, dl.Opaque, 1)
	require.Len(t, dl.Transparent, 1)
	assert.Same(t, rock, dl.Opaque[0].Node)
	assert.Same(t, glass, dl.Transparent[0].Node)
}

func TestCollectSkipsHiddenSubtrees(t *testing.T) {
	root := NewNode("root")
	group := NewNode("group")
	group.Visible = false
	group.Add(meshNode("inner", false))
	root.Add(group)
	root.Add(meshNode("outer", false))

	dl := Collect(root)
	require.Len(t, dl.Opaque, 1)
	assert.Equal(t, "outer", dl.Opaque[0].Node.Name)
}

func TestCollectResolvesWorldTransforms(t *testing.T) {
	root := NewNode("root")
	root.Position = mgl32.Vec3{1, 0, 0}
	child := meshNode("child", false)
	child.Position = mgl32.Vec3{0, 2, 0}
	root.Add(child)

	dl := Collect(root)
	require.Len(t, dl.Opaque, 1)
	assert.Equal(t, child.World(), dl.Opaque[0].World)
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, dl.Opaque[0].World.Col(3).Vec3())
}

func TestCollectLighting(t *testing.T) {
	root := NewNode("root")
	sun := NewNode("sun")
	sun.Position = mgl32.Vec3{0, 10, 0}
	sun.Light = &Light{Kind: Directional, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}, Intensity: 5}
	amb := NewNode("ambient")
	amb.Light = &Light{Kind: Ambient, Color: color.RGBA{R: 255, A: 255}, Intensity: 0.5}
	root.Add(sun)
	root.Add(amb)

	l := Collect(root).Lighting
	require.True(t, l.HasSun)
	assert.InDelta(t, 1, l.ToSun[1], 1e-6)
	assert.Equal(t, float32(5), l.Intensity)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.SunColor)
	assert.Equal(t, mgl32.Vec3{0.5, 0, 0}, l.Ambient)
}

func TestCollectNilRoot(t *testing.T) {
	dl := Collect(nil)
	assert.Empty(t, dl.Opaque)
	assert.False(t, dl.Lighting.HasSun)
}
