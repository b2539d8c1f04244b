// Package ui draws the menu overlay with raylib, styled by a CSS
// stylesheet that can be swapped while the window runs.
package ui

import (
	"os"
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-deck/internal/overlay"
	"scene-deck/internal/ui/style"
)

// Class names the overlay resolves against the stylesheet.
const (
	MenuClass = "menu"
	ItemClass = "menu-item"
)

const defaultFontSize = 20

// Engine lays out and draws an overlay menu. SetStylesheet may be called
// from any goroutine; everything else runs on the window thread.
type Engine struct {
	sheet atomic.Pointer[style.Stylesheet]
	menu  *overlay.Menu
	font  rl.Font
}

// New returns an engine drawing menu with an empty stylesheet.
func New(menu *overlay.Menu) *Engine {
	e := &Engine{menu: menu}
	e.sheet.Store(&style.Stylesheet{})
	return e
}

// SetStylesheet replaces the stylesheet. A nil sheet is ignored.
func (e *Engine) SetStylesheet(sheet *style.Stylesheet) {
	if sheet != nil {
		e.sheet.Store(sheet)
	}
}

// Stylesheet returns the current stylesheet.
func (e *Engine) Stylesheet() *style.Stylesheet {
	return e.sheet.Load()
}

// LoadFont loads a TTF font for text rendering. On failure the engine keeps
// the font it had. Call after the window exists.
func (e *Engine) LoadFont(path string) error {
	f := rl.LoadFont(path)
	if f.Texture.ID == 0 {
		return os.ErrNotExist
	}
	if e.font.Texture.ID != 0 {
		rl.UnloadFont(e.font)
	}
	e.font = f
	return nil
}

// Font returns the loaded font; its texture ID is zero when none is loaded.
func (e *Engine) Font() rl.Font {
	return e.font
}

// Update lays the menu out for the current screen and feeds it this
// frame's pointer state. target receives hover and selection events; it
// may be nil. Pass capture true while another widget owns the pointer.
func (e *Engine) Update(target overlay.Target, capture bool) {
	sheet := e.sheet.Load()
	e.menu.Layout(
		float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()),
		sheet.Resolve(MenuClass, "", false),
		sheet.Resolve(ItemClass, "", false),
	)
	if capture {
		// Park the pointer outside every box so a hover in progress ends.
		e.menu.Pointer(-1, -1, false, target)
		return
	}
	mouse := rl.GetMousePosition()
	e.menu.Pointer(mouse.X, mouse.Y, rl.IsMouseButtonPressed(rl.MouseButtonLeft), target)
}

// Draw draws the menu panel and its items.
func (e *Engine) Draw() {
	boxes := e.menu.Boxes()
	if len(boxes) == 0 {
		return
	}
	sheet := e.sheet.Load()

	panel := sheet.Resolve(MenuClass, "", false)
	first, last := boxes[0], boxes[len(boxes)-1]
	pad := float32(panel.Padding)
	e.box(overlay.Rect{
		X: first.X - pad,
		Y: first.Y - pad,
		W: first.W + 2*pad,
		H: last.Y + last.H - first.Y + 2*pad,
	}, panel)

	hovered := e.menu.Hovered()
	for i, it := range e.menu.Items() {
		st := sheet.Resolve(ItemClass, "", i == hovered)
		b := boxes[i]
		e.box(b, st)
		e.text(it.Label, b, st)
	}
}

func (e *Engine) box(r overlay.Rect, st style.Computed) {
	rec := rl.NewRectangle(r.X, r.Y, r.W, r.H)
	if st.Background.A > 0 {
		rl.DrawRectangleRec(rec, st.Background)
	}
	if st.HasBorder {
		rl.DrawRectangleLinesEx(rec, 1, st.Border)
	}
}

func (e *Engine) text(s string, r overlay.Rect, st style.Computed) {
	size := float32(st.FontSize)
	if size <= 0 {
		size = defaultFontSize
	}
	pad := float32(st.Padding)
	if pad <= 0 {
		pad = 4
	}
	pos := rl.NewVector2(r.X+pad, r.Y+(r.H-size)/2)
	if e.font.Texture.ID != 0 {
		rl.DrawTextEx(e.font, s, pos, size, 1, st.Color)
		return
	}
	rl.DrawText(s, int32(pos.X), int32(pos.Y), int32(size), st.Color)
}
