package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"astroblog/internal/app"
	"astroblog/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render every page to static files",
	Long: `Renders the blog and chart listings, every post and chart page and a
404 page into build.public_dir. Pages whose rendered bytes did not change
since the previous export are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		if exportOut != "" {
			cfg.Build.PublicDir = exportOut
		}
		p, err := newPipeline()
		if err != nil {
			return err
		}

		b := &export.Builder{
			Cfg:      cfg,
			Pages:    p.pages,
			Routes:   &app.RouteBuilder{Source: p.store, Log: log},
			Renderer: p.renderer,
			Log:      log,
			Metrics:  p.metrics,
		}
		res, err := b.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d routes: %d written, %d unchanged, %d removed\n",
			res.Routes, res.Written, res.Unchanged, res.Removed)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output directory (overrides build.public_dir)")
}
