package graph

import (
	"github.com/go-gl/mathgl/mgl32"

	"scene-deck/internal/mathx"
)

// Camera defaults.
const (
	DefaultFovY   = 75
	DefaultNear   = 0.1
	DefaultFar    = 1000
	DefaultAspect = 16.0 / 9.0
)

// Projection never uses a field of view outside this range; FovY itself may
// hold wider values while an intro animation runs.
const (
	minProjectionFov = 1
	maxProjectionFov = 179
)

// Camera is a perspective camera. Orientation rotates the camera's -Z
// forward axis and +Y up axis into world space. FovY is the vertical field
// of view in degrees.
type Camera struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	FovY        float32
	Aspect      float32
	Near        float32
	Far         float32
}

// NewCamera returns a camera at (0, 0, 5) looking at the origin.
func NewCamera() *Camera {
	return &Camera{
		Position:    mgl32.Vec3{0, 0, 5},
		Orientation: mgl32.QuatIdent(),
		FovY:        DefaultFovY,
		Aspect:      DefaultAspect,
		Near:        DefaultNear,
		Far:         DefaultFar,
	}
}

// SetViewport recomputes the aspect ratio. Non-positive sizes are ignored
// (minimized windows report zero).
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Forward returns the world-space viewing direction.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.Orientation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Up returns the world-space up direction.
func (c *Camera) Up() mgl32.Vec3 {
	return c.Orientation.Rotate(mgl32.Vec3{0, 1, 0})
}

// Target returns the point one unit in front of the camera.
func (c *Camera) Target() mgl32.Vec3 {
	return c.Position.Add(c.Forward())
}

// ProjectionFov returns FovY limited to what a perspective projection accepts.
func (c *Camera) ProjectionFov() float32 {
	return mathx.Clamp(c.FovY, minProjectionFov, maxProjectionFov)
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target(), c.Up())
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.ProjectionFov()), c.Aspect, c.Near, c.Far)
}
