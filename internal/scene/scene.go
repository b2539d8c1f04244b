// Package scene holds the scenes the deck manager navigates. A scene owns one
// graph root and one camera. Content is loaded by Init, possibly on another
// goroutine, and committed to the graph at the start of the next Tick on the
// frame goroutine.
package scene

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"scene-deck/internal/asset"
	"scene-deck/internal/graph"
	"scene-deck/internal/logger"
)

// Scene is the unit the manager pushes, pops and ticks.
type Scene interface {
	Label() string
	// Init loads the scene content. It is idempotent and may be retried
	// after a failure.
	Init(ctx context.Context) error
	// Initialized reports whether loaded content has been committed.
	Initialized() bool
	Tick(now time.Time)
	Resize(width, height int)
	Root() *graph.Node
	Camera() *graph.Camera
}

// Base implements the lifecycle shared by all scenes. Embedders call load
// from Init and commit at the top of Tick.
type Base struct {
	label  string
	root   *graph.Node
	camera *graph.Camera
	log    *slog.Logger

	// mailbox carries the single staged commit from Init to Tick.
	mailbox     chan func()
	started     atomic.Bool
	initialized atomic.Bool
}

// NewBase returns an empty, uninitialized scene base.
func NewBase(label string, log *slog.Logger) *Base {
	if log == nil {
		log = logger.Discard()
	}
	return &Base{
		label:   label,
		root:    graph.NewNode(label),
		camera:  graph.NewCamera(),
		log:     log.With("scene", label),
		mailbox: make(chan func(), 1),
	}
}

// Label returns the scene name.
func (b *Base) Label() string { return b.label }

// Root returns the scene graph root.
func (b *Base) Root() *graph.Node { return b.root }

// Camera returns the scene camera.
func (b *Base) Camera() *graph.Camera { return b.camera }

// Initialized reports whether content has been committed.
func (b *Base) Initialized() bool { return b.initialized.Load() }

// Resize updates the camera aspect ratio.
func (b *Base) Resize(width, height int) {
	b.camera.SetViewport(width, height)
}

// load runs stage at most once successfully. stage builds content off the
// graph and returns a closure that attaches it; the closure runs on the
// frame goroutine when commit is next called. A failed stage leaves the
// scene untouched and allows another attempt.
func (b *Base) load(ctx context.Context, stage func(ctx context.Context) (func(), error)) error {
	if b.initialized.Load() || !b.started.CompareAndSwap(false, true) {
		return nil
	}
	apply, err := stage(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		b.started.Store(false)
		return fmt.Errorf("init %s: %w", b.label, err)
	}
	b.mailbox <- apply
	return nil
}

// commit applies staged content if any is waiting and reports whether the
// scene is initialized.
func (b *Base) commit() bool {
	select {
	case apply := <-b.mailbox:
		if apply != nil {
			apply()
		}
		b.initialized.Store(true)
		b.log.Info("scene content committed", "nodes", countNodes(b.root))
	default:
	}
	return b.initialized.Load()
}

// optional reports a failed decoration load. Cancellation is returned so
// Init aborts; any other error is logged and swallowed.
func (b *Base) optional(ctx context.Context, what string, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	b.log.Warn("optional asset unavailable", "asset", what, "err", err)
	return nil
}

// loadSkybox loads the skybox model scaled to scale with shadows disabled.
// A missing skybox yields nil.
func (b *Base) loadSkybox(ctx context.Context, loader asset.Loader, path string, scale float32) (*graph.Node, error) {
	if path == "" || loader == nil {
		return nil, nil
	}
	sky, err := loader.LoadModel(ctx, path)
	if err := b.optional(ctx, path, err); err != nil {
		return nil, err
	}
	if sky == nil {
		return nil, nil
	}
	sky.Name = SkyboxName
	sky.SetScale(scale)
	sky.Walk(func(n *graph.Node) bool {
		n.CastShadow = false
		n.ReceiveShadow = false
		return true
	})
	return sky, nil
}

// loadEnvironment loads an equirectangular map. HDR and EXR maps light the
// scene as well as forming its background; plain images are background only.
func (b *Base) loadEnvironment(ctx context.Context, loader asset.Loader, path string) (background, lighting *graph.Environment, err error) {
	if path == "" || loader == nil {
		return nil, nil, nil
	}
	env, err := loader.LoadEnvironmentMap(ctx, path)
	if err := b.optional(ctx, path, err); err != nil {
		return nil, nil, err
	}
	if env == nil {
		return nil, nil, nil
	}
	if env.Format == graph.EnvImage {
		return env, nil, nil
	}
	return env, env, nil
}

func countNodes(root *graph.Node) int {
	n := 0
	root.Walk(func(*graph.Node) bool {
		n++
		return true
	})
	return n
}
