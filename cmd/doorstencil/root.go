package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/xob0t/doorstencil/internal/config"
	"github.com/xob0t/doorstencil/internal/logging"
	"github.com/xob0t/doorstencil/pkg/door"
	"github.com/xob0t/doorstencil/pkg/generator"
	"github.com/xob0t/doorstencil/pkg/scene"
	"github.com/xob0t/doorstencil/pkg/texture"
	"github.com/xob0t/doorstencil/pkg/warp"
)

// app holds the state shared by every subcommand: one viper instance that
// flags bind into, and the config resolved from it before each run.
type app struct {
	v        *viper.Viper
	cfgFile  string
	cfg      *config.Config
	bindings map[*cobra.Command][]flagBinding
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), bindings: make(map[*cobra.Command][]flagBinding)}

	root := &cobra.Command{
		Use:   "doorstencil",
		Short: "Composite catalog doors into room photos",
		Long: "doorstencil draws a door texture from catalog options and warps it onto the\n" +
			"marked opening of a room photo.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default ./"+config.FileName+")")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "text", "Log format: text or json")
	root.PersistentFlags().String("store", "data/doorstencil.db", "SQLite capture store")
	a.bind(root.PersistentFlags(), []flagBinding{
		{"logging.level", "log-level"},
		{"logging.format", "log-format"},
		{"store.path", "store"},
	})

	root.AddCommand(
		a.captureCmd(),
		a.renderCmd(),
		a.textureCmd(),
		a.catalogCmd(),
		a.serveCmd(),
		a.initCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	a.bind(cmd.Flags(), a.bindings[cmd])
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logging.SetLogger(logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format))
	if used := a.v.ConfigFileUsed(); used != "" {
		logging.Logger().Debug("config loaded", "path", used)
	}
	return nil
}

type flagBinding struct {
	key  string
	flag string
}

// bindOnRun defers binding until cmd runs. Several subcommands map their own
// flags to the same key, and viper keeps only the last binding per key.
func (a *app) bindOnRun(cmd *cobra.Command, bindings []flagBinding) {
	a.bindings[cmd] = bindings
}

func (a *app) bind(fs *pflag.FlagSet, bindings []flagBinding) {
	for _, b := range bindings {
		if err := a.v.BindPFlag(b.key, fs.Lookup(b.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", b.flag, err))
		}
	}
}

// newRenderer builds a scene renderer from the resolved config.
func (a *app) newRenderer() (*scene.Renderer, error) {
	cfg := a.cfg
	bg, err := generator.ParseColor(cfg.Preview.Background)
	if err != nil {
		return nil, fmt.Errorf("preview.background: %w", err)
	}

	r := &scene.Renderer{
		TextureW:           cfg.Texture.Width,
		TextureH:           cfg.Texture.Height,
		Background:         bg,
		FallbackProcedural: cfg.Assets.FallbackProcedural,
	}

	if cfg.Assets.Registry != "" {
		reg, warnings, err := texture.LoadRegistry(cfg.Assets.Registry)
		if err != nil {
			return nil, err
		}
		for _, w := range warnings {
			logging.Logger().Warn("asset registry", "warning", w)
		}
		logging.Logger().Info("asset registry loaded", "path", cfg.Assets.Registry, "designs", reg.Len())
		r.Registry = reg
	}

	if cfg.Output.Caption {
		c, err := scene.NewCaptioner(cfg.Output.CaptionFont)
		if err != nil {
			return nil, err
		}
		r.Caption = c
	}
	return r, nil
}

// ── Door option flags ──

type doorFlags struct {
	structure, frame, glass, design string
}

func (f *doorFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.structure, "structure", "", "Door structure, catalog label or slug")
	fs.StringVar(&f.frame, "frame", "", "Frame color, catalog label or slug")
	fs.StringVar(&f.glass, "glass", "", "Glass type, catalog label or slug")
	fs.StringVar(&f.design, "design", "", "Design type, catalog label or slug")
}

// override returns the options given on the command line. Unrecognized
// values are logged and left Unknown so the capture's own option wins.
func (f *doorFlags) override() door.Config {
	var (
		cfg door.Config
		ok  bool
	)
	if cfg.Structure, ok = door.ParseStructure(f.structure); !ok {
		ignoredOption("structure", f.structure)
	}
	if cfg.FrameColor, ok = door.ParseFrameColor(f.frame); !ok {
		ignoredOption("frame", f.frame)
	}
	if cfg.GlassType, ok = door.ParseGlassType(f.glass); !ok {
		ignoredOption("glass", f.glass)
	}
	if cfg.DesignType, ok = door.ParseDesignType(f.design); !ok {
		ignoredOption("design", f.design)
	}
	return cfg
}

func ignoredOption(flag, value string) {
	if value != "" {
		logging.Logger().Warn("unknown door option ignored", "flag", flag, "value", value)
	}
}

func (f *doorFlags) empty() bool {
	return f.structure == "" && f.frame == "" && f.glass == "" && f.design == ""
}

// parseQuad reads "x1,y1,x2,y2,x3,y3,x4,y4" in normalized photo coordinates.
func parseQuad(s string) ([]warp.Point, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 8 {
		return nil, fmt.Errorf("quad needs 8 comma-separated numbers, got %d", len(fields))
	}
	quad := make([]warp.Point, 4)
	for i := range quad {
		x, err := strconv.ParseFloat(strings.TrimSpace(fields[2*i]), 64)
		if err != nil {
			return nil, fmt.Errorf("quad corner %d x: %w", i+1, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(fields[2*i+1]), 64)
		if err != nil {
			return nil, fmt.Errorf("quad corner %d y: %w", i+1, err)
		}
		quad[i] = warp.Point{X: x, Y: y}
	}
	return quad, nil
}
