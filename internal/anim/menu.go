// Package anim drives the procedural animation of the menu scene: the intro
// zoom, the idle spin, tracking a selected point and easing the camera back
// to the centre. Exactly one phase is active at a time and each phase value
// carries only the data that phase needs.
package anim

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scene-deck/internal/clock"
	"scene-deck/internal/graph"
	"scene-deck/internal/mathx"
	"scene-deck/internal/orient"
)

// Mode names the active phase.
type Mode int

const (
	Uninitialized Mode = iota
	IntroAnimating
	Idle
	RotatingToTarget
	ResettingCamera
)

func (m Mode) String() string {
	switch m {
	case IntroAnimating:
		return "intro"
	case Idle:
		return "idle"
	case RotatingToTarget:
		return "rotating"
	case ResettingCamera:
		return "resetting"
	default:
		return "uninitialized"
	}
}

// Rig is the set of objects the menu animation moves. Every field is
// optional; missing objects are skipped.
type Rig struct {
	Camera *graph.Camera
	// Primary is the object that tracks selected points (the planet).
	Primary *graph.Node
	// Companion spins with its own rate and tracks with the primary (clouds).
	Companion *graph.Node
	// Shell only takes part in the intro scale-up (atmosphere).
	Shell *graph.Node
}

type phase interface {
	mode() Mode
}

type introPhase struct{}

type idlePhase struct{}

type rotatePhase struct {
	object     mgl32.Quat
	camera     mgl32.Quat
	objectDone bool
	cameraDone bool
}

type resetPhase struct {
	start     mgl32.Quat
	target    mgl32.Quat
	startedAt time.Time
	duration  time.Duration
}

func (introPhase) mode() Mode   { return IntroAnimating }
func (idlePhase) mode() Mode    { return Idle }
func (*rotatePhase) mode() Mode { return RotatingToTarget }
func (resetPhase) mode() Mode   { return ResettingCamera }

// State is a snapshot of the machine for display and tests.
type State struct {
	Mode      Mode
	IntroDone bool
	Hovering  bool
	// Target and CameraTarget are set while tracking a selected point.
	Target       *mgl32.Quat
	CameraTarget *mgl32.Quat
	// Reset is set while the camera eases back to the centre.
	Reset *Reset
}

// Reset describes an in-flight camera reset.
type Reset struct {
	Start     mgl32.Quat
	Target    mgl32.Quat
	StartedAt time.Time
	Duration  time.Duration
}

// Menu is the menu-scene animation state machine. It is not safe for
// concurrent use; the frame loop owns it.
type Menu struct {
	params    Params
	clock     clock.Clock
	rig       Rig
	phase     phase
	introDone bool
	hovering  bool
}

// NewMenu returns a machine in the Uninitialized mode. clk stamps the start
// of camera resets and must be the clock the frame loop ticks with.
func NewMenu(p Params, clk clock.Clock) *Menu {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Menu{params: p, clock: clk}
}

// Params returns the tuning constants.
func (m *Menu) Params() Params { return m.params }

// Start binds the rig once the scene content exists and begins the intro,
// or goes straight to Idle when the intro already played. Later calls are
// ignored.
func (m *Menu) Start(rig Rig) {
	if m.phase != nil {
		return
	}
	m.rig = rig
	if m.introDone {
		m.phase = idlePhase{}
		return
	}
	m.applyBaseline()
	m.phase = introPhase{}
}

// Mode returns the active mode.
func (m *Menu) Mode() Mode {
	if m.phase == nil {
		return Uninitialized
	}
	return m.phase.mode()
}

// State returns a snapshot of the machine.
func (m *Menu) State() State {
	s := State{Mode: m.Mode(), IntroDone: m.introDone, Hovering: m.hovering}
	switch ph := m.phase.(type) {
	case *rotatePhase:
		obj, cam := ph.object, ph.camera
		s.Target, s.CameraTarget = &obj, &cam
	case resetPhase:
		s.Reset = &Reset{Start: ph.start, Target: ph.target, StartedAt: ph.startedAt, Duration: ph.duration}
	}
	return s
}

// SetHovering records whether a menu element is hovered. Hovering pauses
// the primary object's spin; leaving a hovered element eases the camera back
// to the centre.
func (m *Menu) SetHovering(v bool) {
	was := m.hovering
	m.hovering = v
	if was && !v {
		m.ResetCamera()
	}
}

// SetIntroDone marks the intro finished or, with false, rewinds it.
func (m *Menu) SetIntroDone(done bool) {
	if !done {
		m.ReplayIntro()
		return
	}
	m.introDone = true
	if _, ok := m.phase.(introPhase); ok {
		m.finishIntro()
	}
}

// ReplayIntro restores the pre-intro scales and field of view so the intro
// plays again. Any pending tracking or reset is dropped.
func (m *Menu) ReplayIntro() {
	m.introDone = false
	if m.phase == nil {
		return
	}
	m.applyBaseline()
	m.phase = introPhase{}
}

// SelectTarget turns the primary object and the camera toward point. It is
// ignored before the intro finishes and when point coincides with the
// object or camera position. Any camera reset in flight is cancelled.
func (m *Menu) SelectTarget(point mgl32.Vec3) {
	if !m.introDone || m.phase == nil {
		return
	}
	p := m.params
	ph := &rotatePhase{objectDone: true, cameraDone: true}
	if obj := m.rig.Primary; obj != nil {
		q, ok := orient.Toward(p.ObjectAxis, obj.Position, point)
		if !ok {
			return
		}
		ph.object, ph.objectDone = q, false
	}
	if cam := m.rig.Camera; cam != nil {
		q, ok := orient.Toward(p.CameraAxis, cam.Position, point)
		if !ok {
			return
		}
		ph.camera, ph.cameraDone = q, false
	}
	if ph.objectDone && ph.cameraDone {
		return
	}
	m.phase = ph
}

// ResetCamera eases the camera back to face the reset target. It is ignored
// before the intro finishes. Any target tracking in flight is cancelled.
func (m *Menu) ResetCamera() {
	if !m.introDone || m.phase == nil {
		return
	}
	cam := m.rig.Camera
	if cam == nil {
		return
	}
	target, ok := orient.Toward(m.params.CameraAxis, cam.Position, m.params.ResetTarget)
	if !ok {
		return
	}
	d := m.params.ResetDuration
	if d <= 0 {
		cam.Orientation = target
		m.phase = idlePhase{}
		return
	}
	m.phase = resetPhase{
		start:     cam.Orientation,
		target:    target,
		startedAt: m.clock.Now(),
		duration:  d,
	}
}

// Tick advances the animation by one frame.
func (m *Menu) Tick(now time.Time) {
	if m.phase == nil {
		return
	}
	m.spin()

	switch ph := m.phase.(type) {
	case introPhase:
		m.stepIntro()
	case *rotatePhase:
		m.stepRotate(ph)
	case resetPhase:
		m.stepReset(ph, now)
	}
}

func (m *Menu) spin() {
	if _, tracking := m.phase.(*rotatePhase); tracking {
		return
	}
	p := m.params
	if obj := m.rig.Primary; obj != nil && !m.hovering {
		obj.Orientation = orient.RotateLocal(obj.Orientation, p.SpinAxis, p.PrimarySpin)
	}
	if c := m.rig.Companion; c != nil {
		c.Orientation = orient.RotateLocal(c.Orientation, p.SpinAxis, p.CompanionSpin)
	}
}

func (m *Menu) applyBaseline() {
	p := m.params
	for _, n := range []*graph.Node{m.rig.Primary, m.rig.Companion, m.rig.Shell} {
		if n != nil {
			n.SetScale(p.ScaleStart)
		}
	}
	if cam := m.rig.Camera; cam != nil {
		cam.FovY = p.IntroFov
	}
}

func (m *Menu) stepIntro() {
	p := m.params
	fovDone, scaleDone := true, true

	if cam := m.rig.Camera; cam != nil {
		cam.FovY = mathx.StepDown(cam.FovY, p.FovStep, p.FovFloor)
		fovDone = cam.FovY == p.FovFloor
	}
	if obj := m.rig.Primary; obj != nil {
		obj.SetScale(mathx.StepUp(obj.Scale[0], p.ScaleStep, p.ScaleCeiling))
		scaleDone = obj.Scale[0] == p.ScaleCeiling
	}
	if c := m.rig.Companion; c != nil {
		c.SetScale(mathx.StepUp(c.Scale[0], p.ScaleStep*p.CompanionGrowth, p.CompanionCeiling))
	}
	if s := m.rig.Shell; s != nil {
		s.SetScale(mathx.StepUp(s.Scale[0], p.ScaleStep*p.ShellGrowth, p.ShellCeiling))
	}

	if fovDone && scaleDone {
		m.introDone = true
		m.finishIntro()
	}
}

func (m *Menu) finishIntro() {
	p := m.params
	if cam := m.rig.Camera; cam != nil {
		cam.FovY = p.FovFloor
	}
	if obj := m.rig.Primary; obj != nil {
		obj.SetScale(p.ScaleCeiling)
	}
	if c := m.rig.Companion; c != nil {
		c.SetScale(p.CompanionCeiling)
	}
	if s := m.rig.Shell; s != nil {
		s.SetScale(p.ShellCeiling)
	}
	m.phase = idlePhase{}
}

func (m *Menu) stepRotate(ph *rotatePhase) {
	p := m.params
	if obj := m.rig.Primary; obj != nil && !ph.objectDone {
		next, remaining := orient.SlerpToward(obj.Orientation, ph.object, p.SlerpFactor)
		if !orient.Valid(next) || math32.IsNaN(remaining) {
			m.phase = idlePhase{}
			return
		}
		obj.Orientation = next
		if c := m.rig.Companion; c != nil {
			if cn := orient.Slerp(c.Orientation, ph.object, p.SlerpFactor); orient.Valid(cn) {
				c.Orientation = cn
			}
		}
		if remaining < p.Epsilon {
			obj.Orientation = ph.object
			if c := m.rig.Companion; c != nil {
				c.Orientation = ph.object
			}
			ph.objectDone = true
		}
	}
	if cam := m.rig.Camera; cam != nil && !ph.cameraDone {
		next, remaining := orient.SlerpToward(cam.Orientation, ph.camera, p.SlerpFactor)
		if !orient.Valid(next) || math32.IsNaN(remaining) {
			m.phase = idlePhase{}
			return
		}
		cam.Orientation = next
		if remaining < p.Epsilon {
			cam.Orientation = ph.camera
			ph.cameraDone = true
		}
	}
	if ph.objectDone && ph.cameraDone {
		m.phase = idlePhase{}
	}
}

func (m *Menu) stepReset(ph resetPhase, now time.Time) {
	cam := m.rig.Camera
	if cam == nil {
		m.phase = idlePhase{}
		return
	}
	elapsed := now.Sub(ph.startedAt)
	t := mathx.Clamp(float32(elapsed)/float32(ph.duration), 0, 1)
	if t >= 1 {
		cam.Orientation = ph.target
		m.phase = idlePhase{}
		return
	}
	if q := orient.Slerp(ph.start, ph.target, t); orient.Valid(q) {
		cam.Orientation = q
	}
}
