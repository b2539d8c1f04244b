package anim

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Params are the tuning constants of the menu animation.
type Params struct {
	// Intro zoom: the camera field of view narrows from IntroFov to FovFloor
	// by FovStep degrees per tick while the primary object grows from
	// ScaleStart to ScaleCeiling by ScaleStep per tick.
	IntroFov     float32
	FovFloor     float32
	FovStep      float32
	ScaleStart   float32
	ScaleCeiling float32
	ScaleStep    float32

	// The companion (cloud layer) and shell (atmosphere) grow slightly faster
	// so they stay visibly outside the primary surface.
	CompanionGrowth  float32
	CompanionCeiling float32
	ShellGrowth      float32
	ShellCeiling     float32

	// Idle spin, radians per tick about SpinAxis.
	SpinAxis      mgl32.Vec3
	PrimarySpin   float32
	CompanionSpin float32

	// Target tracking: fixed per-tick blend factor and convergence threshold
	// in radians.
	SlerpFactor float32
	Epsilon     float32

	// ObjectAxis is turned toward a selected point for the primary object,
	// CameraAxis for the camera (cameras look down -Z).
	ObjectAxis mgl32.Vec3
	CameraAxis mgl32.Vec3

	// Camera reset aims the camera at ResetTarget over ResetDuration.
	ResetTarget   mgl32.Vec3
	ResetDuration time.Duration
}

// DefaultParams returns the canonical parameter set.
func DefaultParams() Params {
	return Params{
		IntroFov:     180,
		FovFloor:     75,
		FovStep:      0.4375,
		ScaleStart:   0.01,
		ScaleCeiling: 4,
		ScaleStep:    0.01665,

		CompanionGrowth:  1.0125,
		CompanionCeiling: 4.05,
		ShellGrowth:      1.015,
		ShellCeiling:     4.06,

		SpinAxis:      mgl32.Vec3{0.34, 0.76, 0},
		PrimarySpin:   0.00005,
		CompanionSpin: 0.000035,

		SlerpFactor: 0.05,
		Epsilon:     0.001,

		ObjectAxis: mgl32.Vec3{0, 0, 1},
		CameraAxis: mgl32.Vec3{0, 0, -1},

		ResetTarget:   mgl32.Vec3{0, 0, 0},
		ResetDuration: 500 * time.Millisecond,
	}
}

// ErrInvalidParams is wrapped by the errors Validate returns.
var ErrInvalidParams = errors.New("invalid animation parameters")

// Validate reports every parameter that would stall the intro or keep a
// rotation from converging.
func (p Params) Validate() error {
	var errs []error
	bad := func(name string, v any, want string) {
		errs = append(errs, fmt.Errorf("%w: %s = %v, want %s", ErrInvalidParams, name, v, want))
	}
	if p.FovStep <= 0 {
		bad("fov step", p.FovStep, "> 0")
	}
	if p.FovFloor <= 0 {
		bad("fov floor", p.FovFloor, "> 0")
	}
	if p.ScaleStep <= 0 {
		bad("scale step", p.ScaleStep, "> 0")
	}
	if p.CompanionGrowth <= 0 {
		bad("companion growth", p.CompanionGrowth, "> 0")
	}
	if p.ShellGrowth <= 0 {
		bad("shell growth", p.ShellGrowth, "> 0")
	}
	if p.SlerpFactor <= 0 || p.SlerpFactor >= 1 {
		bad("slerp factor", p.SlerpFactor, "in (0, 1)")
	}
	if p.Epsilon <= 0 {
		bad("epsilon", p.Epsilon, "> 0")
	}
	if p.ResetDuration < 0 {
		bad("reset duration", p.ResetDuration, ">= 0")
	}
	if p.SpinAxis.Len() == 0 {
		bad("spin axis", p.SpinAxis, "non-zero")
	}
	return errors.Join(errs...)
}
