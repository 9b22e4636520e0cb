package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xob0t/doorstencil/internal/config"
	"github.com/xob0t/doorstencil/internal/logging"
	"github.com/xob0t/doorstencil/pkg/door"
)

func (a *app) initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter " + config.FileName + " in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := writeNew(config.FileName, []byte(config.Sample), force); err != nil {
				return err
			}
			logging.Logger().Info("config written", "path", config.FileName)
			fmt.Fprintln(cmd.OutOrStdout(), "Next: doorstencil capture --photo room.jpg --quad 0.3,0.1,0.7,0.1,0.7,0.9,0.3,0.9")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

// writeNew writes data to path, refusing to replace an existing file unless
// overwrite is set.
func writeNew(path string, data []byte, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *app) catalogCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the door options and their slugs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := door.Catalog()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cat)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "OPTION\tLABEL\tSLUG")
			groups := []struct {
				name    string
				entries []door.CatalogEntry
			}{
				{"structure", cat.Structure},
				{"frame", cat.FrameColor},
				{"glass", cat.GlassType},
				{"design", cat.DesignType},
			}
			for _, g := range groups {
				for _, e := range g.entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", g.name, e.Label, e.Slug)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}
