package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"

	"scene-deck/internal/graph"
)

var errBadHDR = errors.New("malformed radiance file")

// hdrHeader reads the resolution line of a Radiance file and returns the
// picture size and the number of bytes that follow the header.
func hdrHeader(data []byte) (w, h, payload int, err error) {
	if !bytes.HasPrefix(data, []byte("#?")) {
		return 0, 0, 0, errBadHDR
	}
	end := bytes.Index(data, []byte("\n\n"))
	if end < 0 {
		return 0, 0, 0, errBadHDR
	}
	rest := data[end+2:]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 {
		return 0, 0, 0, errBadHDR
	}
	res := strings.TrimSpace(string(rest[:nl]))
	if _, err := fmt.Sscanf(res, "-Y %d +X %d", &h, &w); err != nil {
		return 0, 0, 0, fmt.Errorf("radiance resolution %q: %w", res, ErrUnsupported)
	}
	return w, h, len(rest) - nl - 1, nil
}

// decodeHDR decodes a Radiance RGBE picture into linear RGB floats. The
// header is checked against the payload before any pixel memory is taken.
func decodeHDR(data []byte) (*graph.Environment, error) {
	w, h, payload, err := hdrHeader(data)
	if err != nil {
		return nil, err
	}
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	// Every scanline, flat or run-length coded, spends at least four bytes.
	if payload < 4*h {
		return nil, fmt.Errorf("%w: %d scanlines in %d bytes", errBadHDR, h, payload)
	}

	src, err := rgbe.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadHDR, err)
	}
	return &graph.Environment{
		Format: graph.EnvHDR,
		Width:  src.Bounds().Dx(),
		Height: src.Bounds().Dy(),
		Pixels: linearRGB(src),
	}, nil
}

// linearRGB flattens src into RGB triples, keeping float precision when the
// codec provides it.
func linearRGB(src image.Image) []float32 {
	b := src.Bounds()
	pixels := make([]float32, 0, b.Dx()*b.Dy()*3)
	himg, isHDR := src.(hdr.Image)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if isHDR {
				r, g, bl, _ := himg.HDRAt(x, y).HDRRGBA()
				pixels = append(pixels, float32(r), float32(g), float32(bl))
				continue
			}
			r, g, bl, _ := src.At(x, y).RGBA()
			pixels = append(pixels, float32(r)/0xffff, float32(g)/0xffff, float32(bl)/0xffff)
		}
	}
	return pixels
}
