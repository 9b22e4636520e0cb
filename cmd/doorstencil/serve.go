package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xob0t/doorstencil/clients/server"
	"github.com/xob0t/doorstencil/internal/logging"
	"github.com/xob0t/doorstencil/internal/store"
)

func (a *app) serveCmd() *cobra.Command {
	var open bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := store.Open(ctx, a.cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			r, err := a.newRenderer()
			if err != nil {
				return err
			}
			srv, err := server.New(a.cfg, st, r)
			if err != nil {
				return err
			}

			logging.Logger().Info("serving",
				"url", fmt.Sprintf("http://localhost:%d", a.cfg.Server.Port),
				"store", a.cfg.Store.Path,
			)
			return srv.Run(ctx, fmt.Sprintf(":%d", a.cfg.Server.Port), open)
		},
	}
	cmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	cmd.Flags().String("base-url", "", "Public URL used in share QR codes")
	cmd.Flags().Int("debounce", 120, "Live preview debounce in milliseconds")
	cmd.Flags().BoolVar(&open, "open", false, "Open the browser after starting")

	a.bindOnRun(cmd, []flagBinding{
		{"server.port", "port"},
		{"server.base_url", "base-url"},
		{"preview.debounce_ms", "debounce"},
	})
	return cmd
}
