// Package deck implements the scene navigation stack: an ordered list of
// scenes with a cursor selecting the one that is ticked and rendered.
package deck

import (
	"context"
	"log/slog"
	"sync"

	"scene-deck/internal/clock"
	"scene-deck/internal/graph"
	"scene-deck/internal/logger"
	"scene-deck/internal/mathx"
	"scene-deck/internal/scene"
)

// Renderer draws one frame of a scene graph seen through a camera.
type Renderer interface {
	Render(root *graph.Node, camera *graph.Camera)
}

// Manager owns the scene stack. Navigation and Tick are serialized, so a
// tick never observes a half-applied navigation. When the stack is non-empty
// the cursor is always a valid index.
type Manager struct {
	mu       sync.Mutex
	scenes   []scene.Scene
	cursor   int
	renderer Renderer
	clock    clock.Clock
	log      *slog.Logger

	// last viewport, applied to scenes pushed later
	width, height int

	ctx    context.Context
	cancel context.CancelFunc
	loads  sync.WaitGroup
	closed bool
}

// New returns an empty manager. A nil renderer makes Tick update scenes
// without drawing them.
func New(renderer Renderer, clk clock.Clock, log *slog.Logger) *Manager {
	if clk == nil {
		clk = clock.Real{}
	}
	if log == nil {
		log = logger.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{renderer: renderer, clock: clk, log: log, ctx: ctx, cancel: cancel}
}

// Push appends s to the stack. The cursor does not move unless the stack
// was empty, in which case s becomes current.
func (m *Manager) Push(s scene.Scene) {
	if s == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushLocked(s)
}

func (m *Manager) pushLocked(s scene.Scene) bool {
	if m.closed {
		m.log.Warn("push after close ignored", "scene", s.Label())
		return false
	}
	if m.width > 0 && m.height > 0 {
		s.Resize(m.width, m.height)
	}
	m.scenes = append(m.scenes, s)
	m.log.Info("scene pushed", "scene", s.Label(), "len", len(m.scenes))
	return true
}

// Open navigates to a new scene: it pushes s, moves the cursor onto it and
// runs its Init on a new goroutine. Init failures are logged and the scene
// stays on the stack uninitialized. Close cancels pending loads.
func (m *Manager) Open(s scene.Scene) {
	if s == nil {
		return
	}
	m.mu.Lock()
	ok := m.pushLocked(s)
	if ok {
		m.cursor = len(m.scenes) - 1
		m.loads.Add(1)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	go func() {
		defer m.loads.Done()
		if err := s.Init(m.ctx); err != nil {
			m.log.Error("scene init failed", "scene", s.Label(), "err", err)
		}
	}()
}

// Pop removes and returns the last scene. It reports false on an empty
// stack. The cursor is clamped back into range.
func (m *Manager) Pop() (scene.Scene, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.popLocked()
}

func (m *Manager) popLocked() (scene.Scene, bool) {
	n := len(m.scenes)
	if n == 0 {
		return nil, false
	}
	s := m.scenes[n-1]
	m.scenes[n-1] = nil
	m.scenes = m.scenes[:n-1]
	m.clampLocked()
	m.log.Info("scene popped", "scene", s.Label(), "len", len(m.scenes))
	return s, true
}

// Clear pops every scene but the first and moves the cursor to it.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.scenes) > 1 {
		m.popLocked()
	}
	m.cursor = 0
}

// Current returns the scene under the cursor.
func (m *Manager) Current() (scene.Scene, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentLocked()
}

func (m *Manager) currentLocked() (scene.Scene, bool) {
	if len(m.scenes) == 0 {
		return nil, false
	}
	return m.scenes[m.cursor], true
}

// StepBack moves the cursor one scene toward the bottom of the stack.
func (m *Manager) StepBack() { m.move(func(c int) int { return c - 1 }) }

// StepForward moves the cursor one scene toward the top of the stack.
func (m *Manager) StepForward() { m.move(func(c int) int { return c + 1 }) }

// GoToLast moves the cursor to the most recently pushed scene.
func (m *Manager) GoToLast() { m.move(func(int) int { return len(m.scenes) - 1 }) }

// SetIndex moves the cursor to i, clamped into range.
func (m *Manager) SetIndex(i int) { m.move(func(int) int { return i }) }

func (m *Manager) move(to func(cursor int) int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.scenes) == 0 {
		return
	}
	m.cursor = to(m.cursor)
	m.clampLocked()
}

func (m *Manager) clampLocked() {
	if len(m.scenes) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = mathx.Clamp(m.cursor, 0, len(m.scenes)-1)
}

// Len returns the number of scenes on the stack.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.scenes)
}

// Index returns the cursor.
func (m *Manager) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// Labels returns the scene labels from bottom to top.
func (m *Manager) Labels() []string {
	labels, _ := m.Snapshot()
	return labels
}

// Snapshot returns the labels and the cursor as one consistent view. The
// cursor indexes labels unless labels is empty.
func (m *Manager) Snapshot() (labels []string, cursor int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	labels = make([]string, len(m.scenes))
	for i, s := range m.scenes {
		labels[i] = s.Label()
	}
	return labels, m.cursor
}

// Tick advances the current scene and renders it. With no scene it does
// nothing. This is the only place the renderer is invoked.
func (m *Manager) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.currentLocked()
	if !ok {
		return
	}
	s.Tick(m.clock.Now())
	if m.renderer != nil {
		m.renderer.Render(s.Root(), s.Camera())
	}
}

// NotifyResize forwards a viewport change to every scene and remembers it
// for scenes pushed later.
func (m *Manager) NotifyResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.width, m.height = width, height
	for _, s := range m.scenes {
		s.Resize(width, height)
	}
}

// Close cancels pending loads, waits for them and drops every scene. Later
// ticks do nothing.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	m.loads.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.scenes)
	m.scenes = nil
	m.cursor = 0
}
