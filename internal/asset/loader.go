// Package asset loads models, textures and equirectangular environment maps
// from a hackpadfs file system. Loads are one-shot and honour context
// cancellation between reads.
package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	"github.com/hack-pad/hackpadfs"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"scene-deck/internal/graph"
)

var (
	// ErrUnsupported is returned for model formats the loader cannot read.
	ErrUnsupported = errors.New("unsupported asset format")
	// ErrNotImage is returned when a texture payload is not a known image.
	ErrNotImage = errors.New("not an image")
	// ErrTooLarge is returned for pictures whose header declares more
	// pixels than the loader accepts.
	ErrTooLarge = errors.New("image too large")
)

// maxPixels bounds every decoded picture (8192x4096).
const maxPixels = 8192 * 4096

// checkSize vets dimensions read from a file header before any pixel memory
// is allocated for them.
func checkSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("image size %dx%d: %w", w, h, ErrNotImage)
	}
	if w > maxPixels/h {
		return fmt.Errorf("image size %dx%d: %w", w, h, ErrTooLarge)
	}
	return nil
}

// Loader is the asset capability scenes consume.
type Loader interface {
	LoadModel(ctx context.Context, path string) (*graph.Node, error)
	LoadTexture(ctx context.Context, path string) (*graph.Texture, error)
	LoadEnvironmentMap(ctx context.Context, path string) (*graph.Environment, error)
}

// imageExts are the extensions LoadEnvironmentMap decodes as plain images.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// FSLoader reads assets from a file system. Paths may carry a leading slash;
// they are resolved relative to the file system root.
type FSLoader struct {
	fsys hackpadfs.FS
	// maxTextureSize caps the longer texture edge; 0 keeps source sizes.
	maxTextureSize int
}

// NewFSLoader returns a loader over fsys. Textures whose longer edge exceeds
// maxTextureSize are downscaled; 0 disables the cap.
func NewFSLoader(fsys hackpadfs.FS, maxTextureSize int) *FSLoader {
	return &FSLoader{fsys: fsys, maxTextureSize: maxTextureSize}
}

// Clean turns a web-style asset path ("/textures/a.png") into a file system path.
func Clean(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

func (l *FSLoader) read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := hackpadfs.ReadFile(l.fsys, Clean(p))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadModel reads a glTF (.gltf JSON) or Wavefront OBJ file into a node tree.
// The returned root references the file so a backend can draw its geometry.
func (l *FSLoader) LoadModel(ctx context.Context, p string) (*graph.Node, error) {
	ext := strings.ToLower(path.Ext(p))
	if ext != ".gltf" && ext != ".obj" {
		return nil, fmt.Errorf("model %s: %w", p, ErrUnsupported)
	}
	data, err := l.read(ctx, p)
	if err != nil {
		return nil, err
	}
	var root *graph.Node
	switch ext {
	case ".gltf":
		root, err = parseGLTF(data)
	case ".obj":
		root, err = parseOBJ(data)
	}
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", p, err)
	}
	root.Name = path.Base(p)
	root.Mesh = &graph.Mesh{Model: Clean(p)}
	return root, nil
}

// LoadTexture decodes an image file into an RGBA texture.
func (l *FSLoader) LoadTexture(ctx context.Context, p string) (*graph.Texture, error) {
	data, err := l.read(ctx, p)
	if err != nil {
		return nil, err
	}
	img, err := l.decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", p, err)
	}
	return &graph.Texture{Path: Clean(p), Image: img}, nil
}

func (l *FSLoader) decodeImage(data []byte) (*image.RGBA, error) {
	if !filetype.IsImage(data) {
		return nil, ErrNotImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := checkSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	img := clone.AsRGBA(src)
	if l.maxTextureSize <= 0 {
		return img, nil
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	longest := max(w, h)
	if longest <= l.maxTextureSize {
		return img, nil
	}
	w = max(1, w*l.maxTextureSize/longest)
	h = max(1, h*l.maxTextureSize/longest)
	return transform.Resize(img, w, h, transform.Linear), nil
}

// LoadEnvironmentMap loads an equirectangular map, choosing the decoder by
// extension: .hdr (Radiance), .exr (OpenEXR) or a plain image. Paths without
// a recognised extension yield (nil, nil).
func (l *FSLoader) LoadEnvironmentMap(ctx context.Context, p string) (*graph.Environment, error) {
	ext := strings.ToLower(path.Ext(p))
	if ext != ".hdr" && ext != ".exr" && !imageExts[ext] {
		return nil, nil
	}
	data, err := l.read(ctx, p)
	if err != nil {
		return nil, err
	}

	var env *graph.Environment
	switch {
	case ext == ".hdr":
		env, err = decodeHDR(data)
	case ext == ".exr":
		env, err = decodeEXR(data)
	default:
		var img *image.RGBA
		img, err = l.decodeImage(data)
		if err == nil {
			env = &graph.Environment{
				Format: graph.EnvImage,
				Width:  img.Bounds().Dx(),
				Height: img.Bounds().Dy(),
				Image:  img,
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("environment %s: %w", p, err)
	}
	env.Path = Clean(p)
	return env, nil
}
