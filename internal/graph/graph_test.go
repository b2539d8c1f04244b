package graph

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeAddReparents(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	child := NewNode("child")

	a.Add(child)
	require.Equal(t, a, child.Parent())
	b.Add(child)

	assert.Empty(t, a.Children())
	assert.Equal(t, []*Node{child}, b.Children())
	assert.Equal(t, b, child.Parent())

	a.Add(a)
	a.Add(nil)
	assert.Empty(t, a.Children())
}

func TestNodeFindAndWalk(t *testing.T) {
	root := NewNode("root")
	sky := NewNode("sky")
	planet := NewNode("planet")
	clouds := NewNode("clouds")
	root.Add(sky)
	root.Add(planet)
	planet.Add(clouds)

	assert.Equal(t, clouds, root.Find("clouds"))
	assert.Nil(t, root.Find("missing"))

	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return n.Name != "planet"
	})
	assert.Equal(t, []string{"root", "sky", "planet"}, names)

	assert.True(t, root.Remove(sky))
	assert.False(t, root.Remove(sky))
	assert.Nil(t, sky.Parent())
}

func TestNodeWorldTransform(t *testing.T) {
	parent := NewNode("parent")
	parent.Position = mgl32.Vec3{1, 0, 0}
	parent.SetScale(2)
	child := NewNode("child")
	child.Position = mgl32.Vec3{0, 1, 0}
	parent.Add(child)

	p := child.World().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 1, p[0], 1e-6)
	assert.InDelta(t, 2, p[1], 1e-6)
	assert.InDelta(t, 0, p[2], 1e-6)
}

func TestNodeAxisAngle(t *testing.T) {
	n := NewNode("n")
	axis, angle := n.AxisAngle()
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, axis)
	assert.Zero(t, angle)

	n.Orientation = mgl32.QuatRotate(math.Pi/3, mgl32.Vec3{1, 0, 0})
	axis, angle = n.AxisAngle()
	assert.InDelta(t, 1, axis[0], 1e-5)
	assert.InDelta(t, math.Pi/3, angle, 1e-5)
}

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, mgl32.Vec3{0, 0, 5}, c.Position)
	fwd := c.Forward()
	assert.InDelta(t, -1, fwd[2], 1e-6)
	assert.Equal(t, float32(DefaultFovY), c.FovY)
}

func TestCameraSetViewport(t *testing.T) {
	c := NewCamera()
	c.SetViewport(800, 400)
	assert.Equal(t, float32(2), c.Aspect)

	c.SetViewport(0, 400)
	c.SetViewport(800, -1)
	assert.Equal(t, float32(2), c.Aspect)
}

func TestCameraProjectionFovIsBounded(t *testing.T) {
	c := NewCamera()
	c.FovY = 180
	assert.Equal(t, float32(maxProjectionFov), c.ProjectionFov())
	m := c.Projection()
	for _, v := range m {
		assert.False(t, math.IsInf(float64(v), 0) || math.IsNaN(float64(v)))
	}
}

func TestCameraProjectionFollowsViewport(t *testing.T) {
	c := NewCamera()
	c.SetViewport(1600, 800)
	m := c.Projection()
	f := float32(1 / math.Tan(float64(mgl32.DegToRad(DefaultFovY))/2))
	assert.InDelta(t, f/2, m[0], 1e-5)
	assert.InDelta(t, f, m[5], 1e-5)

	// Clip planes come from the camera, not the backend defaults.
	near, far := c.Near, c.Far
	assert.InDelta(t, (near+far)/(near-far), m[10], 1e-5)
	assert.InDelta(t, 2*far*near/(near-far), m[14], 1e-4)
}

func TestCameraViewLooksDownForward(t *testing.T) {
	c := NewCamera()
	c.Orientation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	v := c.View()
	// A point ahead of the camera lands on the view -Z axis.
	ahead := v.Mul4x1(c.Position.Add(c.Forward().Mul(3)).Vec4(1))
	assert.InDelta(t, 0, ahead[0], 1e-5)
	assert.InDelta(t, 0, ahead[1], 1e-5)
	assert.InDelta(t, -3, ahead[2], 1e-5)
}
