package deck

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-deck/internal/anim"
	"scene-deck/internal/asset"
	"scene-deck/internal/clock"
	"scene-deck/internal/graph"
	"scene-deck/internal/scene"
)

type stubScene struct {
	label  string
	root   *graph.Node
	camera *graph.Camera

	mu          sync.Mutex
	ticks       []time.Time
	inits       int
	initErr     error
	initialized bool
}

func newStub(label string) *stubScene {
	return &stubScene{label: label, root: graph.NewNode(label), camera: graph.NewCamera()}
}

func (s *stubScene) Label() string { return s.label }

func (s *stubScene) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inits++
	if s.initErr != nil {
		return s.initErr
	}
	s.initialized = true
	return nil
}

func (s *stubScene) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *stubScene) Tick(now time.Time)       { s.ticks = append(s.ticks, now) }
func (s *stubScene) Resize(width, height int) { s.camera.SetViewport(width, height) }
func (s *stubScene) Root() *graph.Node        { return s.root }
func (s *stubScene) Camera() *graph.Camera    { return s.camera }

type recorder struct {
	frames []string
	camera *graph.Camera
}

func (r *recorder) Render(root *graph.Node, camera *graph.Camera) {
	r.frames = append(r.frames, root.Name)
	r.camera = camera
}

func newManager() (*Manager, *recorder, *clock.Mock) {
	r := &recorder{}
	clk := clock.NewMock(time.Unix(0, 0))
	return New(r, clk, nil), r, clk
}

func TestEmptyManager(t *testing.T) {
	m, r, _ := newManager()

	m.Tick()
	assert.Empty(t, r.frames)
	_, ok := m.Current()
	assert.False(t, ok)
	_, ok = m.Pop()
	assert.False(t, ok)

	m.StepBack()
	m.StepForward()
	m.GoToLast()
	m.SetIndex(7)
	m.Clear()
	assert.Equal(t, 0, m.Index())
	assert.Equal(t, 0, m.Len())
}

func TestPushKeepsCursor(t *testing.T) {
	m, _, _ := newManager()
	m.Push(newStub("a"))
	m.Push(newStub("b"))
	m.Push(nil)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 0, m.Index())
	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.Label())

	m.GoToLast()
	assert.Equal(t, 1, m.Index())
	assert.Equal(t, []string{"a", "b"}, m.Labels())
}

func TestNavigationScenario(t *testing.T) {
	m, r, _ := newManager()
	m.Push(newStub("Portfolio"))
	m.Open(newStub("Menu"))
	assert.Equal(t, []string{"Portfolio", "Menu"}, m.Labels())
	assert.Equal(t, 1, m.Index())

	m.StepBack()
	assert.Equal(t, 0, m.Index())
	m.GoToLast()
	assert.Equal(t, 1, m.Index())
	m.Tick()
	m.Clear()
	assert.Equal(t, []string{"Portfolio"}, m.Labels())
	assert.Equal(t, 0, m.Index())
	m.Tick()

	assert.Equal(t, []string{"Menu", "Portfolio"}, r.frames)
	m.Close()
}

func TestClearIsIdempotent(t *testing.T) {
	m, _, _ := newManager()
	for _, l := range []string{"a", "b", "c"} {
		m.Push(newStub(l))
	}
	m.SetIndex(2)
	m.Clear()
	first := m.Labels()
	m.Clear()
	assert.Equal(t, first, m.Labels())
	assert.Equal(t, []string{"a"}, first)
	assert.Equal(t, 0, m.Index())
}

func TestStepsClampAtBoundaries(t *testing.T) {
	m, _, _ := newManager()
	m.Push(newStub("a"))
	m.Push(newStub("b"))

	for i := 0; i < 5; i++ {
		m.StepForward()
	}
	assert.Equal(t, 1, m.Index())
	for i := 0; i < 5; i++ {
		m.StepBack()
	}
	assert.Equal(t, 0, m.Index())

	m.SetIndex(-3)
	assert.Equal(t, 0, m.Index())
	m.SetIndex(99)
	assert.Equal(t, 1, m.Index())
}

func TestPopClampsCursor(t *testing.T) {
	m, _, _ := newManager()
	m.Push(newStub("a"))
	m.Push(newStub("b"))
	m.GoToLast()

	s, ok := m.Pop()
	require.True(t, ok)
	assert.Equal(t, "b", s.Label())
	assert.Equal(t, 0, m.Index())

	_, ok = m.Pop()
	require.True(t, ok)
	_, ok = m.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, m.Index())
}

func TestCursorInvariantUnderRandomNavigation(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	m, r, _ := newManager()

	for step := 0; step < 5000; step++ {
		switch rng.IntN(8) {
		case 0:
			m.Push(newStub("s"))
		case 1:
			m.Pop()
		case 2:
			m.Clear()
		case 3:
			m.StepBack()
		case 4:
			m.StepForward()
		case 5:
			m.GoToLast()
		case 6:
			m.SetIndex(rng.IntN(20) - 10)
		case 7:
			m.Tick()
		}
		n, c := m.Len(), m.Index()
		if n == 0 {
			require.Equal(t, 0, c, "step %d", step)
			continue
		}
		require.GreaterOrEqual(t, c, 0, "step %d", step)
		require.Less(t, c, n, "step %d", step)
	}
	assert.NotEmpty(t, r.frames)
}

func TestTickUpdatesThenRendersCurrent(t *testing.T) {
	m, r, clk := newManager()
	a, b := newStub("a"), newStub("b")
	m.Push(a)
	m.Push(b)

	m.Tick()
	clk.Advance(16 * time.Millisecond)
	m.Tick()

	require.Len(t, a.ticks, 2)
	assert.Equal(t, time.Unix(0, 0).Add(16*time.Millisecond), a.ticks[1])
	assert.Empty(t, b.ticks)
	assert.Equal(t, []string{"a", "a"}, r.frames)
	assert.Same(t, a.camera, r.camera)
}

func TestNavigationNeverRenders(t *testing.T) {
	m, r, _ := newManager()
	m.Push(newStub("a"))
	m.Push(newStub("b"))
	m.GoToLast()
	m.StepBack()
	m.NotifyResize(100, 100)
	m.Clear()
	assert.Empty(t, r.frames)
}

func TestNilRenderer(t *testing.T) {
	m := New(nil, nil, nil)
	a := newStub("a")
	m.Push(a)
	m.Tick()
	assert.Len(t, a.ticks, 1)
}

func TestResizeBroadcastAndReplay(t *testing.T) {
	m, _, _ := newManager()
	a, b := newStub("a"), newStub("b")
	m.Push(a)
	m.Push(b)

	m.NotifyResize(1000, 500)
	assert.Equal(t, float32(2), a.camera.Aspect)
	assert.Equal(t, float32(2), b.camera.Aspect)

	m.NotifyResize(0, 10)
	assert.Equal(t, float32(2), a.camera.Aspect)

	c := newStub("c")
	m.Push(c)
	assert.Equal(t, float32(2), c.camera.Aspect)
}

func TestOpenRunsInit(t *testing.T) {
	m, _, _ := newManager()
	ok := newStub("ok")
	bad := newStub("bad")
	bad.initErr = assert.AnError

	m.Open(ok)
	m.Open(bad)
	assert.Equal(t, 1, m.Index())

	m.Close()
	assert.True(t, ok.Initialized())
	assert.False(t, bad.Initialized())
	assert.Equal(t, 0, m.Len())
}

func TestCloseStopsEverything(t *testing.T) {
	m, r, _ := newManager()
	a := newStub("a")
	m.Push(a)
	m.Close()

	m.Tick()
	m.Push(newStub("late"))
	m.Open(newStub("later"))
	assert.Empty(t, r.frames)
	assert.Empty(t, a.ticks)
	assert.Equal(t, 0, m.Len())
}

func TestMenuAndPortfolioThroughManager(t *testing.T) {
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	loader := asset.NewFSLoader(fsys, 0)
	clk := clock.NewMock(time.Unix(100, 0))
	r := &recorder{}
	m := New(r, clk, nil)

	portfolio := scene.NewPortfolio(loader, scene.DefaultAssets(), nil)
	menu := scene.NewMenu(loader, scene.DefaultAssets(), anim.DefaultParams(), clk, nil)
	m.Push(portfolio)
	m.Push(menu)
	m.NotifyResize(1600, 900)
	require.NoError(t, portfolio.Init(context.Background()))
	require.NoError(t, menu.Init(context.Background()))

	m.GoToLast()
	for i := 0; i < 300; i++ {
		clk.Advance(16 * time.Millisecond)
		m.Tick()
	}
	assert.True(t, menu.Initialized())
	assert.False(t, portfolio.Initialized(), "only the current scene is ticked")
	assert.Contains(t, menu.Status(), "idle fov=75.0")
	assert.Equal(t, float32(75), menu.Camera().FovY)
	assert.InDelta(t, 1600.0/900.0, menu.Camera().Aspect, 1e-6)

	m.StepBack()
	m.Tick()
	assert.True(t, portfolio.Initialized())
	assert.Len(t, r.frames, 301)
	assert.Equal(t, scene.PortfolioLabel, r.frames[300])
}
