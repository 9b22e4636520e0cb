package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/xob0t/doorstencil/internal/config"
	"github.com/xob0t/doorstencil/internal/logging"
	"github.com/xob0t/doorstencil/internal/store"
	"github.com/xob0t/doorstencil/pkg/door"
	"github.com/xob0t/doorstencil/pkg/generator"
	"github.com/xob0t/doorstencil/pkg/scene"
)

func (a *app) captureCmd() *cobra.Command {
	var (
		photo, quad, output, key string
		put                      bool
		opts                     doorFlags
	)
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Build a capture from a photo and the door opening's corners",
		Example: "  doorstencil capture --photo room.jpg --quad 0.3,0.1,0.7,0.1,0.7,0.9,0.3,0.9\n" +
			"  doorstencil capture --photo room.jpg --quad ... --structure swing --put",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if photo == "" || quad == "" {
				return errors.New("--photo and --quad are required")
			}
			q, err := parseQuad(quad)
			if err != nil {
				return err
			}
			img, err := imaging.Open(photo, imaging.AutoOrientation(true))
			if err != nil {
				return fmt.Errorf("open photo: %w", err)
			}

			var cfg *door.Config
			if !opts.empty() {
				o := opts.override()
				cfg = &o
			}
			c, err := scene.NewCapture(img, q, cfg, a.cfg.Output.JPEGQuality)
			if err != nil {
				return err
			}
			for _, w := range scene.ValidateCapture(c) {
				logging.Logger().Warn("capture", "warning", w)
			}

			if output != "" {
				data, err := c.Marshal()
				if err != nil {
					return err
				}
				if err := writeNew(output, data, true); err != nil {
					return err
				}
				logging.Logger().Info("capture written", "path", output)
			}
			if put {
				st, err := store.Open(cmd.Context(), a.cfg.Store.Path)
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.PutCapture(cmd.Context(), key, c); err != nil {
					return err
				}
				logging.Logger().Info("capture stored", "key", key, "store", a.cfg.Store.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&photo, "photo", "", "Room photo (JPEG, PNG or BMP)")
	cmd.Flags().StringVar(&quad, "quad", "", "Door corners TL,TR,BR,BL as x1,y1,...,x4,y4 in [0,1]")
	cmd.Flags().StringVarP(&output, "output", "o", "capture.json", "Capture file to write; empty to skip")
	cmd.Flags().BoolVar(&put, "put", false, "Also save the capture in the store")
	cmd.Flags().StringVar(&key, "key", scene.CaptureKey, "Store key used with --put")
	opts.register(cmd.Flags())
	return cmd
}

func (a *app) renderCmd() *cobra.Command {
	var (
		capturePath, key, output, previewOut string
		opts                                 doorFlags
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Composite the door into a capture's photo",
		Example: "  doorstencil render --capture capture.json -o door.jpg --glass bronze\n" +
			"  doorstencil render --key arDoorCapture --preview-out preview.jpg",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := loadCapture(ctx, a.cfg, capturePath, key)
			if err != nil {
				return err
			}
			for _, w := range scene.ValidateCapture(c) {
				logging.Logger().Warn("capture", "warning", w)
			}
			s, err := scene.Open(c)
			if err != nil {
				return err
			}
			override := opts.override()
			cfg := scene.EffectiveConfig(c, &override)

			r, err := a.newRenderer()
			if err != nil {
				return err
			}

			var export *scene.Frame
			if previewOut != "" {
				var preview *scene.Frame
				preview, export, err = r.RenderBoth(ctx, s, cfg, a.cfg.Preview.Width, a.cfg.Preview.Height)
				if err != nil {
					return err
				}
				if err := generator.WriteFile(previewOut, preview.Image, a.cfg.Output.JPEGQuality); err != nil {
					return err
				}
				logging.Logger().Info("preview written", "path", previewOut, "mode", preview.Layout.Mode)
			} else {
				export, err = r.Export(ctx, s, cfg)
				if err != nil {
					return err
				}
			}

			if err := generator.WriteFile(output, export.Image, a.cfg.Output.JPEGQuality); err != nil {
				return err
			}
			if !export.Painted {
				logging.Logger().Warn("door opening is invalid; photo written without a door")
			}
			logging.Logger().Info("export written",
				"path", output,
				"structure", cfg.Structure.Slug(),
				"frame", cfg.FrameColor.Slug(),
				"glass", cfg.GlassType.Slug(),
				"design", cfg.DesignType.Slug(),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&capturePath, "capture", "", "Capture JSON file")
	cmd.Flags().StringVar(&key, "key", "", "Read the capture from the store instead")
	cmd.Flags().StringVarP(&output, "output", "o", "door.jpg", "Export file (.jpg, .png or .bmp)")
	cmd.Flags().StringVar(&previewOut, "preview-out", "", "Also write a fitted preview to this file")
	cmd.Flags().Int("preview-width", 960, "Preview canvas width")
	cmd.Flags().Int("preview-height", 540, "Preview canvas height")
	cmd.Flags().Int("quality", generator.DefaultJPEGQuality, "JPEG quality (1-100)")
	cmd.Flags().Bool("caption", false, "Print the chosen options onto the export")
	cmd.Flags().String("registry", "", "YAML registry of pre-rendered design images")
	opts.register(cmd.Flags())

	a.bindOnRun(cmd, []flagBinding{
		{"preview.width", "preview-width"},
		{"preview.height", "preview-height"},
		{"output.jpeg_quality", "quality"},
		{"output.caption", "caption"},
		{"assets.registry", "registry"},
	})
	return cmd
}

// loadCapture reads a capture from path, or from the store when key is set.
func loadCapture(ctx context.Context, cfg *config.Config, path, key string) (*scene.Capture, error) {
	var (
		c        *scene.Capture
		warnings []string
		err      error
	)
	switch {
	case key != "":
		st, err := store.Open(ctx, cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		c, warnings, err = st.GetCapture(ctx, key)
		if err != nil {
			return nil, err
		}
	case path != "":
		c, warnings, err = scene.LoadCapture(path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("one of --capture or --key is required")
	}
	for _, w := range warnings {
		logging.Logger().Warn("capture", "warning", w)
	}
	return c, nil
}

func (a *app) textureCmd() *cobra.Command {
	var (
		output string
		opts   doorFlags
	)
	cmd := &cobra.Command{
		Use:     "texture",
		Short:   "Render the bare door texture",
		Example: "  doorstencil texture -o door.png --structure three-slide --glass fluted --design bars",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.newRenderer()
			if err != nil {
				return err
			}
			cfg := door.Merge(door.DefaultConfig(), opts.override())
			img, err := r.Texture(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := generator.WriteFile(output, img, a.cfg.Output.JPEGQuality); err != nil {
				return err
			}
			b := img.Bounds()
			logging.Logger().Info("texture written", "path", output, "w", b.Dx(), "h", b.Dy())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "door.png", "Texture file (.png keeps transparency)")
	cmd.Flags().Int("width", 600, "Texture width in pixels")
	cmd.Flags().Int("height", 1200, "Texture height in pixels")
	cmd.Flags().String("registry", "", "YAML registry of pre-rendered design images")
	opts.register(cmd.Flags())

	a.bindOnRun(cmd, []flagBinding{
		{"texture.width", "width"},
		{"texture.height", "height"},
		{"assets.registry", "registry"},
	})
	return cmd
}
