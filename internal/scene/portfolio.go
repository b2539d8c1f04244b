package scene

import (
	"context"
	"log/slog"
	"time"

	"scene-deck/internal/asset"
	"scene-deck/internal/graph"
)

// PortfolioLabel is the label of the portfolio scene.
const PortfolioLabel = "PortfolioScene"

// Portfolio is a static scene showing the skybox. It has no animation.
type Portfolio struct {
	*Base
	loader asset.Loader
	assets Assets
}

// NewPortfolio returns an uninitialized portfolio scene.
func NewPortfolio(loader asset.Loader, assets Assets, log *slog.Logger) *Portfolio {
	return &Portfolio{Base: NewBase(PortfolioLabel, log), loader: loader, assets: assets}
}

func (p *Portfolio) Init(ctx context.Context) error {
	return p.load(ctx, func(ctx context.Context) (func(), error) {
		sky, err := p.loadSkybox(ctx, p.loader, p.assets.Skybox, p.assets.SkyboxScale)
		if err != nil {
			return nil, err
		}
		background, lighting, err := p.loadEnvironment(ctx, p.loader, p.assets.Environment)
		if err != nil {
			return nil, err
		}
		return func() {
			if sky != nil {
				p.root.Add(sky)
			}
			p.root.Background, p.root.Environment = background, lighting
		}, nil
	})
}

func (p *Portfolio) Tick(time.Time) {
	p.commit()
}

var _ Scene = (*Portfolio)(nil)

// skybox returns the committed skybox node, or nil.
func (p *Portfolio) skybox() *graph.Node {
	return p.root.Find(SkyboxName)
}
