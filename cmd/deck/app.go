package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hack-pad/hackpadfs"
	osfs "github.com/hack-pad/hackpadfs/os"

	"scene-deck/internal/asset"
	"scene-deck/internal/clock"
	"scene-deck/internal/commands"
	"scene-deck/internal/config"
	"scene-deck/internal/debug"
	"scene-deck/internal/deck"
	"scene-deck/internal/env"
	"scene-deck/internal/fonts"
	"scene-deck/internal/graph"
	"scene-deck/internal/graphics"
	"scene-deck/internal/logger"
	"scene-deck/internal/overlay"
	"scene-deck/internal/scene"
	"scene-deck/internal/terminal"
	"scene-deck/internal/ui"
	"scene-deck/internal/ui/style"
)

type app struct {
	cfg     config.Config
	lines   *logger.Logger
	log     *slog.Logger
	catalog scene.Catalog
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return env.Path(env.ConfigVar, config.DefaultPath)
}

// loadConfig reads .env, then the config file, then applies the flags.
func loadConfig() (config.Config, error) {
	if err := env.Load(".env"); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return cfg, err
	}
	root := assetsDir
	if root == "" {
		root = env.Path(env.AssetsVar, "")
	}
	if err := cfg.Apply(config.Overrides{Width: width, Height: height, FPS: fps, Root: root}); err != nil {
		return cfg, err
	}
	if windowed {
		cfg.Window.Fullscreen = false
	}
	return cfg, nil
}

func setup() (*app, error) {
	lines := logger.New(logger.FilePath, os.Stderr)
	log := lines.Slog(slog.LevelInfo)

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	fsys, err := assetFS(cfg.Assets.Root)
	if err != nil {
		return nil, fmt.Errorf("assets %s: %w", cfg.Assets.Root, err)
	}
	return &app{
		cfg:   cfg,
		lines: lines,
		log:   log,
		catalog: scene.Catalog{
			Loader: asset.NewFSLoader(fsys, cfg.Assets.MaxTextureSize),
			Assets: cfg.Assets.Scene,
			Params: cfg.Menu.Params(),
			Clock:  clock.Real{},
			Log:    log,
		},
	}, nil
}

// assetFS roots an OS file system at dir.
func assetFS(dir string) (hackpadfs.FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	fsys := osfs.NewFS()
	p, err := fsys.FromOSPath(abs)
	if err != nil {
		return nil, err
	}
	return fsys.Sub(p)
}

func (a *app) check(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var errs []error
	for _, label := range a.catalog.Labels() {
		s, err := a.catalog.New(label)
		if err != nil {
			return err
		}
		if err := s.Init(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label, err))
			fmt.Fprintf(out, "%-16s FAILED %v\n", label, err)
			continue
		}
		s.Tick(time.Now())
		n := 0
		s.Root().Walk(func(*graph.Node) bool { n++; return true })
		fmt.Fprintf(out, "%-16s ok (%d nodes)\n", label, n)
	}
	return errors.Join(errs...)
}

func (a *app) run() error {
	cfg := a.cfg
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renderer := graphics.NewRenderer(cfg.Assets.Root, a.log)
	m := deck.New(renderer, a.catalog.Clock, a.log)

	// show jumps to a scene already on the stack or opens a new one.
	show := func(label string) {
		for i, l := range m.Labels() {
			if l == label {
				m.SetIndex(i)
				return
			}
		}
		s, err := a.catalog.New(label)
		if err != nil {
			a.log.Warn("open scene", "err", err)
			return
		}
		m.Open(s)
	}

	reg := commands.NewRegistry()
	deck.RegisterCommands(reg, m, a.catalog.New, a.lines.Log)
	reg.Register("help", "list the commands", nil, func([]string) error {
		for _, l := range reg.Help() {
			a.lines.Log(l)
		}
		return nil
	})
	term := terminal.New(a.lines, reg)

	items := make([]overlay.Item, len(cfg.Items))
	for i, it := range cfg.Items {
		items[i] = overlay.Item{Label: it.Label, Anchor: mgl32.Vec3(it.Anchor), Scene: it.Scene}
	}
	engine := ui.New(overlay.New(items, show))
	if css := cfg.Console.Stylesheet; css != "" {
		if sheet, err := style.Load(css); err != nil {
			a.log.Warn("stylesheet", "path", css, "err", err)
		} else {
			engine.SetStylesheet(sheet)
		}
		go func() {
			if err := style.Watch(ctx, css, a.log, engine.SetStylesheet); err != nil {
				a.log.Warn("stylesheet watch", "path", css, "err", err)
			}
		}()
	}

	hud := debug.New()
	hud.ShowFPS = cfg.Console.ShowHUD
	hud.ShowStatus = cfg.Console.ShowHUD
	hud.Status = m.Status

	graphics.Run(graphics.Window{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		FPS:        cfg.Window.FPS,
		Fullscreen: cfg.Window.Fullscreen,
	}, graphics.Frame{
		Start: func() {
			a.loadFont(engine, term, hud)
			show(scene.PortfolioLabel)
			show(scene.MenuLabel)
		},
		Resize: m.NotifyResize,
		Update: func() {
			if cfg.Console.Enabled {
				term.Update()
			}
			if menu := currentMenu(m); menu != nil {
				engine.Update(menu, term.IsOpen())
			}
		},
		Draw: func() {
			m.Tick()
			if currentMenu(m) != nil {
				engine.Draw()
			}
			term.Draw()
			hud.Draw()
		},
		Close: func() {
			m.Close()
			renderer.Close()
		},
	})
	return nil
}

func currentMenu(m *deck.Manager) *scene.Menu {
	s, ok := m.Current()
	if !ok {
		return nil
	}
	menu, _ := s.(*scene.Menu)
	return menu
}

func (a *app) loadFont(engine *ui.Engine, term *terminal.Terminal, hud *debug.Debug) {
	name := strings.TrimSpace(a.cfg.Console.Font)
	if name == "" {
		return
	}
	path, err := fonts.Find(fonts.Dir(a.cfg.Assets.Root), name)
	if err != nil {
		a.log.Info("font not found; using the default", "font", name)
		return
	}
	if err := engine.LoadFont(path); err != nil {
		a.log.Warn("font load", "path", path, "err", err)
		return
	}
	term.SetFont(engine.Font())
	hud.SetFont(engine.Font())
}
