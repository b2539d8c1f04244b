package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval refreshes the text every N frames to limit allocations.
	updateInterval = 30
)

var statusColor = rl.NewColor(200, 200, 200, 220)

// Debug draws the runtime overlays: FPS and heap size at the top right and
// the deck status (cursor, scene, animation mode) at the top left.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStatus   bool
	// Status returns the lines of the status block.
	Status func() []string

	font         rl.Font
	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats
}

// New returns a Debug with every overlay hidden.
func New() *Debug {
	return &Debug{}
}

// SetFont sets the overlay font. A zero font uses raylib's default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// Draw renders the enabled overlays. Call last in the frame.
func (d *Debug) Draw() {
	d.frameCount++
	update := d.frameCount%updateInterval == 0 || d.frameCount == 1

	screenW := float32(rl.GetScreenWidth())
	y := float32(padding)

	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		d.right(d.lastFpsText, screenW, y)
		y += lineHeight
	}
	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", float64(d.lastMemStats.Alloc)/(1024*1024))
		}
		d.right(d.lastMemText, screenW, y)
	}
	if d.ShowStatus && d.Status != nil {
		// Navigation changes the status at any frame, so it is not cached.
		for i, line := range d.Status() {
			d.text(line, padding, float32(padding+i*lineHeight), statusColor)
		}
	}
}

func (d *Debug) right(text string, screenW, y float32) {
	if text == "" {
		return
	}
	var w float32
	if d.font.Texture.ID != 0 {
		w = rl.MeasureTextEx(d.font, text, fontSize, 1).X
	} else {
		w = float32(rl.MeasureText(text, fontSize))
	}
	d.text(text, screenW-w-padding, y, rl.Green)
}

func (d *Debug) text(s string, x, y float32, c rl.Color) {
	if d.font.Texture.ID != 0 {
		rl.DrawTextEx(d.font, s, rl.NewVector2(x, y), fontSize, 1, c)
		return
	}
	rl.DrawText(s, int32(x), int32(y), fontSize, c)
}
