package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window configures the host window.
type Window struct {
	Title      string
	Width      int
	Height     int
	FPS        int
	Fullscreen bool
}

// Frame holds the per-frame callbacks. Any of them may be nil.
type Frame struct {
	// Start runs once after the window opens (GPU resources can be created).
	Start func()
	// Resize runs once after the window opens and whenever it changes size.
	Resize func(width, height int)
	// Update runs before drawing (input handling).
	Update func()
	// Draw runs between BeginDrawing and EndDrawing on a cleared screen.
	Draw func()
	// Close runs after the loop ends, before the window is destroyed.
	Close func()
}

// Run opens the window and drives the main loop until the window is closed.
// ESC is reserved for the console, so closing goes through the window button.
func Run(w Window, f Frame) {
	width, height := int32(w.Width), int32(w.Height)
	if w.Fullscreen {
		rl.SetConfigFlags(rl.FlagFullscreenMode | rl.FlagMsaa4xHint)
		width, height = int32(rl.GetMonitorWidth(0)), int32(rl.GetMonitorHeight(0))
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	}
	rl.InitWindow(width, height, w.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	if w.FPS > 0 {
		rl.SetTargetFPS(int32(w.FPS))
	}

	if f.Start != nil {
		f.Start()
	}
	if f.Close != nil {
		defer f.Close()
	}

	resize := func() {
		if f.Resize != nil {
			f.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
		}
	}
	resize()

	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			resize()
		}
		if f.Update != nil {
			f.Update()
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		if f.Draw != nil {
			f.Draw()
		}
		rl.EndDrawing()
	}
}
