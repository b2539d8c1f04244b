package anim

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-deck/internal/clock"
	"scene-deck/internal/graph"
	"scene-deck/internal/orient"
)

var planetPos = mgl32.Vec3{3.25, -1.75, 1}

type fixture struct {
	menu  *Menu
	clock *clock.Mock
	rig   Rig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewMock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	rig := Rig{
		Camera:    graph.NewCamera(),
		Primary:   graph.NewNode("Planet"),
		Companion: graph.NewNode("Clouds"),
		Shell:     graph.NewNode("Atmosphere"),
	}
	for _, n := range []*graph.Node{rig.Primary, rig.Companion, rig.Shell} {
		n.Position = planetPos
	}
	return &fixture{menu: NewMenu(DefaultParams(), clk), clock: clk, rig: rig}
}

// tick advances the mock clock by one 60 Hz frame and ticks the menu.
func (f *fixture) tick() {
	f.clock.Advance(time.Second / 60)
	f.menu.Tick(f.clock.Now())
}

// started returns a fixture whose intro has already finished.
func started(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.menu.Start(f.rig)
	f.menu.SetIntroDone(true)
	require.Equal(t, Idle, f.menu.Mode())
	return f
}

func TestUninitializedIsInert(t *testing.T) {
	f := newFixture(t)
	before := *f.rig.Camera

	f.tick()
	f.menu.SelectTarget(mgl32.Vec3{0, 0, 0})
	f.menu.ResetCamera()
	f.menu.SetHovering(true)
	f.menu.SetHovering(false)

	assert.Equal(t, Uninitialized, f.menu.Mode())
	assert.Equal(t, before, *f.rig.Camera)
	assert.Equal(t, mgl32.QuatIdent(), f.rig.Primary.Orientation)
}

func TestStartAppliesBaseline(t *testing.T) {
	f := newFixture(t)
	f.menu.Start(f.rig)

	p := DefaultParams()
	assert.Equal(t, IntroAnimating, f.menu.Mode())
	assert.Equal(t, p.IntroFov, f.rig.Camera.FovY)
	for _, n := range []*graph.Node{f.rig.Primary, f.rig.Companion, f.rig.Shell} {
		assert.Equal(t, p.ScaleStart, n.Scale[0], n.Name)
	}
}

func TestIntroIsMonotonicAndTerminates(t *testing.T) {
	f := newFixture(t)
	f.menu.Start(f.rig)
	p := DefaultParams()

	prevFov := f.rig.Camera.FovY
	prevScale := f.rig.Primary.Scale[0]
	ticks := 0
	for !f.menu.State().IntroDone {
		require.Less(t, ticks, 1000, "intro did not terminate")
		f.tick()
		ticks++

		fov, scale := f.rig.Camera.FovY, f.rig.Primary.Scale[0]
		require.GreaterOrEqual(t, fov, p.FovFloor)
		require.LessOrEqual(t, scale, p.ScaleCeiling)
		if prevFov > p.FovFloor {
			require.Less(t, fov, prevFov, "tick %d", ticks)
		}
		if prevScale < p.ScaleCeiling {
			require.Greater(t, scale, prevScale, "tick %d", ticks)
		}
		prevFov, prevScale = fov, scale
	}

	assert.Equal(t, 240, ticks)
	assert.Equal(t, Idle, f.menu.Mode())
	assert.Equal(t, p.FovFloor, f.rig.Camera.FovY)
	assert.Equal(t, p.ScaleCeiling, f.rig.Primary.Scale[0])
	assert.Equal(t, p.CompanionCeiling, f.rig.Companion.Scale[0])
	assert.Equal(t, p.ShellCeiling, f.rig.Shell.Scale[0])

	for i := 0; i < 50; i++ {
		f.tick()
	}
	assert.True(t, f.menu.State().IntroDone)
	assert.Equal(t, p.FovFloor, f.rig.Camera.FovY)
	assert.Equal(t, p.ScaleCeiling, f.rig.Primary.Scale[0])
}

func TestIntroShellsStayOutside(t *testing.T) {
	f := newFixture(t)
	f.menu.Start(f.rig)
	for i := 0; i < 120; i++ {
		f.tick()
	}
	assert.Greater(t, f.rig.Companion.Scale[0], f.rig.Primary.Scale[0])
	assert.Greater(t, f.rig.Shell.Scale[0], f.rig.Companion.Scale[0])
}

func TestReplayIntroRestoresBaseline(t *testing.T) {
	f := started(t)
	f.menu.SelectTarget(planetPos.Add(mgl32.Vec3{1, 0, 0}))
	require.Equal(t, RotatingToTarget, f.menu.Mode())

	f.menu.ReplayIntro()

	p := DefaultParams()
	st := f.menu.State()
	assert.Equal(t, IntroAnimating, st.Mode)
	assert.False(t, st.IntroDone)
	assert.Nil(t, st.Target)
	assert.Nil(t, st.Reset)
	assert.Equal(t, p.IntroFov, f.rig.Camera.FovY)
	assert.Equal(t, p.ScaleStart, f.rig.Primary.Scale[0])

	// targets are refused until the replayed intro ends
	f.menu.SelectTarget(mgl32.Vec3{0, 5, 0})
	assert.Equal(t, IntroAnimating, f.menu.Mode())
}

func TestIdleSpin(t *testing.T) {
	f := started(t)
	f.tick()
	p := DefaultParams()
	assert.InDelta(t, p.PrimarySpin, orient.Distance(mgl32.QuatIdent(), f.rig.Primary.Orientation), 1e-6)
	assert.InDelta(t, p.CompanionSpin, orient.Distance(mgl32.QuatIdent(), f.rig.Companion.Orientation), 1e-6)
}

func TestHoverSuspendsPrimarySpinOnly(t *testing.T) {
	f := started(t)
	f.menu.SetHovering(true)
	for i := 0; i < 10; i++ {
		f.tick()
	}
	assert.Equal(t, mgl32.QuatIdent(), f.rig.Primary.Orientation)
	assert.Greater(t, orient.Distance(mgl32.QuatIdent(), f.rig.Companion.Orientation), float32(0))
}

func TestRotateToTargetConvergesAndSnaps(t *testing.T) {
	f := started(t)
	f.menu.SetHovering(true)

	// Directly behind the planet: a half turn away from its +Z axis.
	f.menu.SelectTarget(planetPos.Add(mgl32.Vec3{0, 0, -1}))
	st := f.menu.State()
	require.Equal(t, RotatingToTarget, st.Mode)
	require.NotNil(t, st.Target)
	require.NotNil(t, st.CameraTarget)
	objTarget, camTarget := *st.Target, *st.CameraTarget
	assert.InDelta(t, math.Pi, orient.Distance(f.rig.Primary.Orientation, objTarget), 1e-3)

	prev := orient.Distance(f.rig.Primary.Orientation, objTarget)
	ticks := 0
	for f.menu.Mode() == RotatingToTarget {
		require.Less(t, ticks, 170, "rotation did not converge")
		f.tick()
		ticks++
		d := orient.Distance(f.rig.Primary.Orientation, objTarget)
		require.LessOrEqual(t, d, prev)
		prev = d
	}

	assert.Equal(t, Idle, f.menu.Mode())
	assert.Equal(t, objTarget, f.rig.Primary.Orientation)
	assert.Equal(t, objTarget, f.rig.Companion.Orientation)
	assert.Equal(t, camTarget, f.rig.Camera.Orientation)
	assert.Nil(t, f.menu.State().Target)
}

func TestCameraTargetUsesForwardAxis(t *testing.T) {
	f := started(t)
	point := mgl32.Vec3{5, 0, 5}
	f.menu.SelectTarget(point)
	st := f.menu.State()
	require.NotNil(t, st.CameraTarget)
	fwd := st.CameraTarget.Rotate(mgl32.Vec3{0, 0, -1})
	assert.InDelta(t, 1, fwd[0], 1e-5)
	assert.InDelta(t, 0, fwd[2], 1e-5)
}

func TestResetCameraTiming(t *testing.T) {
	f := started(t)
	cam := f.rig.Camera
	start := mgl32.QuatRotate(1.2, mgl32.Vec3{0, 1, 0})
	cam.Orientation = start

	f.menu.ResetCamera()
	st := f.menu.State()
	require.Equal(t, ResettingCamera, st.Mode)
	require.NotNil(t, st.Reset)
	assert.Equal(t, start, st.Reset.Start)
	assert.Equal(t, 500*time.Millisecond, st.Reset.Duration)
	target := st.Reset.Target
	// camera at (0,0,5) facing the origin needs no rotation
	assert.InDelta(t, 0, orient.Distance(mgl32.QuatIdent(), target), 1e-5)

	f.clock.Advance(250 * time.Millisecond)
	f.menu.Tick(f.clock.Now())
	assert.Equal(t, ResettingCamera, f.menu.Mode())
	total := orient.Distance(start, target)
	assert.InDelta(t, total/2, orient.Distance(start, cam.Orientation), 1e-4)
	assert.InDelta(t, total/2, orient.Distance(cam.Orientation, target), 1e-4)

	f.clock.Advance(250 * time.Millisecond)
	f.menu.Tick(f.clock.Now())
	assert.Equal(t, target, cam.Orientation)
	st = f.menu.State()
	assert.Equal(t, Idle, st.Mode)
	assert.Nil(t, st.Reset)
}

func TestResetCameraLateSampleSnaps(t *testing.T) {
	f := started(t)
	f.rig.Camera.Orientation = mgl32.QuatRotate(-0.7, mgl32.Vec3{1, 0, 0})
	f.menu.ResetCamera()
	target := f.menu.State().Reset.Target

	f.clock.Advance(3 * time.Second)
	f.menu.Tick(f.clock.Now())
	assert.Equal(t, target, f.rig.Camera.Orientation)
	assert.Equal(t, Idle, f.menu.Mode())
}

func TestLeavingHoverResetsCamera(t *testing.T) {
	f := started(t)
	f.menu.SetHovering(true)
	assert.Equal(t, Idle, f.menu.Mode())
	f.menu.SetHovering(false)
	assert.Equal(t, ResettingCamera, f.menu.Mode())
}

func TestSelectTargetCancelsReset(t *testing.T) {
	f := started(t)
	f.rig.Camera.Orientation = mgl32.QuatRotate(0.4, mgl32.Vec3{0, 1, 0})
	f.menu.ResetCamera()
	require.NotNil(t, f.menu.State().Reset)

	f.menu.SelectTarget(mgl32.Vec3{0, 3, 0})
	st := f.menu.State()
	assert.Equal(t, RotatingToTarget, st.Mode)
	assert.Nil(t, st.Reset)
	assert.NotNil(t, st.Target)
}

func TestLeavingHoverDuringRotationSwitchesToReset(t *testing.T) {
	f := started(t)
	f.menu.SetHovering(true)
	f.menu.SelectTarget(mgl32.Vec3{0, 3, 0})
	f.tick()
	require.Equal(t, RotatingToTarget, f.menu.Mode())

	f.menu.SetHovering(false)
	st := f.menu.State()
	assert.Equal(t, ResettingCamera, st.Mode)
	assert.Nil(t, st.Target)
	assert.Nil(t, st.CameraTarget)
	require.NotNil(t, st.Reset)

	for i := 0; i < 60; i++ {
		f.tick()
	}
	assert.Equal(t, Idle, f.menu.Mode())
	assert.Equal(t, st.Reset.Target, f.rig.Camera.Orientation)
}

func TestDegenerateTargetIsIgnored(t *testing.T) {
	f := started(t)
	f.menu.SetHovering(true)
	before := f.rig.Primary.Orientation
	camBefore := f.rig.Camera.Orientation

	f.menu.SelectTarget(planetPos)
	f.menu.SelectTarget(f.rig.Camera.Position)
	f.menu.SelectTarget(mgl32.Vec3{float32(math.NaN()), 0, 0})

	assert.Equal(t, Idle, f.menu.Mode())
	assert.Nil(t, f.menu.State().Target)
	f.tick()
	assert.Equal(t, before, f.rig.Primary.Orientation)
	assert.Equal(t, camBefore, f.rig.Camera.Orientation)
	assert.True(t, orient.Valid(f.rig.Primary.Orientation))
}

func TestTargetsIgnoredDuringIntro(t *testing.T) {
	f := newFixture(t)
	f.menu.Start(f.rig)
	f.menu.SelectTarget(mgl32.Vec3{0, 3, 0})
	f.menu.ResetCamera()
	assert.Equal(t, IntroAnimating, f.menu.Mode())
}

func TestMissingRigObjects(t *testing.T) {
	clk := clock.NewMock(time.Unix(0, 0))
	m := NewMenu(DefaultParams(), clk)
	cam := graph.NewCamera()
	m.Start(Rig{Camera: cam})

	for i := 0; i < 300 && !m.State().IntroDone; i++ {
		clk.Advance(time.Second / 60)
		m.Tick(clk.Now())
	}
	require.True(t, m.State().IntroDone)
	m.SelectTarget(mgl32.Vec3{1, 1, 0})
	assert.Equal(t, RotatingToTarget, m.Mode())
	for i := 0; i < 300 && m.Mode() == RotatingToTarget; i++ {
		m.Tick(clk.Now())
	}
	assert.Equal(t, Idle, m.Mode())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "intro", IntroAnimating.String())
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "rotating", RotatingToTarget.String())
	assert.Equal(t, "resetting", ResettingCamera.String())
}
