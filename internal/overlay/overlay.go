// Package overlay lays out the menu overlay and turns pointer input into
// hover and target-selection events for the menu scene.
package overlay

import (
	"github.com/go-gl/mathgl/mgl32"

	"scene-deck/internal/ui/style"
)

// Fallback sizes used when the stylesheet leaves them unset.
const (
	defaultWidth = 240
	defaultGap   = 6
)

// Item is one overlay entry.
type Item struct {
	Label string
	// Anchor is the world point the planet and camera turn toward on click.
	Anchor mgl32.Vec3
	// Scene, when set, names a scene opened on click instead.
	Scene string
}

// Rect is a screen rectangle in pixels.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Target receives pointer events; the menu scene implements it.
type Target interface {
	SetHovering(bool)
	SelectTarget(point mgl32.Vec3)
}

// Menu is a vertical list of items.
type Menu struct {
	items    []Item
	boxes    []Rect
	hovered  int
	hovering bool
	open     func(scene string)
}

// New returns a menu over items. open is called for items naming a scene.
func New(items []Item, open func(scene string)) *Menu {
	return &Menu{items: items, boxes: make([]Rect, len(items)), hovered: -1, open: open}
}

// Items returns the menu entries.
func (m *Menu) Items() []Item { return m.items }

// Boxes returns the item rectangles computed by the last Layout.
func (m *Menu) Boxes() []Rect { return m.boxes }

// Hovered returns the index of the item under the pointer, or -1.
func (m *Menu) Hovered() int { return m.hovered }

// Layout stacks the items inside a container positioned by box. Item
// height comes from item.Height, or the font size plus padding.
func (m *Menu) Layout(screenW, screenH float32, box, item style.Computed) {
	w := float32(defaultWidth)
	switch {
	case box.Width > 0:
		w = float32(box.Width)
	case item.Width > 0:
		w = float32(item.Width)
	}
	h := float32(item.Height)
	if h <= 0 {
		h = float32(item.FontSize + 2*item.Padding)
	}
	gap := float32(box.Gap)
	if gap <= 0 {
		gap = defaultGap
	}
	total := float32(len(m.items))*(h+gap) - gap
	if total < 0 {
		total = 0
	}

	x, y := float32(box.Left), float32(box.Top)
	if box.LeftPct >= 0 {
		x = (screenW - w) * float32(box.LeftPct) / 100
	}
	if box.TopPct >= 0 {
		y = (screenH - total) * float32(box.TopPct) / 100
	}
	for i := range m.items {
		m.boxes[i] = Rect{X: x, Y: y + float32(i)*(h+gap), W: w, H: h}
	}
}

// Pointer applies one frame of pointer input. Hover changes are reported to
// t when they happen; a click on an item selects its anchor or opens its
// scene. t may be nil when the current scene has no menu animation.
func (m *Menu) Pointer(x, y float32, clicked bool, t Target) {
	m.hovered = -1
	for i, b := range m.boxes {
		if b.Contains(x, y) {
			m.hovered = i
			break
		}
	}
	hovering := m.hovered >= 0
	if hovering != m.hovering {
		m.hovering = hovering
		if t != nil {
			t.SetHovering(hovering)
		}
	}
	if !clicked || !hovering {
		return
	}
	it := m.items[m.hovered]
	if it.Scene != "" {
		if m.open != nil {
			m.open(it.Scene)
		}
		return
	}
	if t != nil {
		t.SelectTarget(it.Anchor)
	}
}
