package asset

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"

	"scene-deck/internal/graph"
)

// displayGamma converts tonemapped linear values for an sRGB display.
const displayGamma = 2.2

// Preview returns an 8-bit picture of env for backends without float
// texture support. Float maps are Reinhard tonemapped and gamma corrected.
func Preview(env *graph.Environment) *image.RGBA {
	if env == nil {
		return nil
	}
	switch env.Format {
	case graph.EnvImage:
		return env.Image
	case graph.EnvHDR, graph.EnvEXR:
		if env.Width <= 0 || env.Height <= 0 || len(env.Pixels) < env.Width*env.Height*3 {
			return nil
		}
		img := image.NewRGBA(image.Rect(0, 0, env.Width, env.Height))
		for y := 0; y < env.Height; y++ {
			for x := 0; x < env.Width; x++ {
				i := (y*env.Width + x) * 3
				img.SetRGBA(x, y, color.RGBA{
					R: reinhard(env.Pixels[i]),
					G: reinhard(env.Pixels[i+1]),
					B: reinhard(env.Pixels[i+2]),
					A: 0xFF,
				})
			}
		}
		return adjust.Gamma(img, displayGamma)
	default:
		return nil
	}
}

func reinhard(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	return uint8(v/(1+v)*255 + 0.5)
}
