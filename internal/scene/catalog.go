package scene

import (
	"errors"
	"fmt"
	"log/slog"

	"scene-deck/internal/anim"
	"scene-deck/internal/asset"
	"scene-deck/internal/clock"
)

// ErrUnknown is returned by Catalog.New for a label no scene uses.
var ErrUnknown = errors.New("unknown scene")

// Catalog builds scenes by label with shared dependencies.
type Catalog struct {
	Loader asset.Loader
	Assets Assets
	Params anim.Params
	Clock  clock.Clock
	Log    *slog.Logger
}

// Labels lists the scenes New can build.
func (c Catalog) Labels() []string {
	return []string{MenuLabel, PortfolioLabel}
}

// New returns a fresh, uninitialized scene for label.
func (c Catalog) New(label string) (Scene, error) {
	switch label {
	case MenuLabel:
		return NewMenu(c.Loader, c.Assets, c.Params, c.Clock, c.Log), nil
	case PortfolioLabel:
		return NewPortfolio(c.Loader, c.Assets, c.Log), nil
	default:
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknown, label, c.Labels())
	}
}
