package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"astroblog/internal/app"
	"astroblog/internal/domain/config"
	"astroblog/internal/logger"
	"astroblog/internal/metrics"
	"astroblog/internal/render"
	"astroblog/internal/store"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg config.Config
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "astroblog",
	Short: "Blog and natal chart site for Vedic astrology content",
	Long: `astroblog serves and exports a blog of posts and natal charts.

Content lives in two JSON files (posts and charts) that are re-read on
every request, so edits show up without a restart.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFiles(); err != nil {
			return err
		}
		c, err := config.LoadOrDefault(configPath)
		if err != nil {
			return fmt.Errorf("config %s: %w", configPath, err)
		}
		cfg = c

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		l, err := logger.New(logger.Config{Level: level, Development: cfg.Log.Development})
		if err != nil {
			return err
		}
		log = l.With(logger.String("cmd", cmd.Name()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "site.yaml", "Path to the site config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// pipeline wires the store and renderer shared by serve and export.
type pipeline struct {
	store    *store.Store
	renderer *render.TemplateRenderer
	pages    *app.Pages
	metrics  *metrics.Metrics
}

func newPipeline() (*pipeline, error) {
	m := metrics.New(nil)
	r, err := render.NewTemplateRenderer(cfg.Site.ThemeDir)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	st := store.New(cfg, log, m)
	return &pipeline{
		store:    st,
		renderer: r,
		pages:    app.NewPages(cfg, st, r, log),
		metrics:  m,
	}, nil
}
