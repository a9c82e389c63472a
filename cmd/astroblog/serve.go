package main

import (
	"github.com/spf13/cobra"

	"astroblog/internal/logger"
	"astroblog/internal/serve"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blog, chart pages and static files over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		p, err := newPipeline()
		if err != nil {
			return err
		}

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		log.Info("starting server",
			logger.String("addr", addr),
			logger.String("content_dir", cfg.Content.BaseDir),
			logger.String("template_hash", p.renderer.Hash()),
		)
		return serve.New(cfg, p.pages, log, p.metrics).ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr and PORT)")
}
