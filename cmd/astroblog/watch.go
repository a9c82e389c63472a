package main

import (
	"context"

	"github.com/spf13/cobra"

	"astroblog/internal/check"
	"astroblog/internal/domain/content"
	"astroblog/internal/logger"
	"astroblog/internal/store"
	"astroblog/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check content whenever the JSON sources change",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		st := store.New(cfg, log, nil)
		candidates := append(st.Candidates(content.KindPost), st.Candidates(content.KindChart)...)

		runCheck := func(ctx context.Context) {
			rep := check.Run(ctx, st)
			for _, f := range rep.Findings {
				if f.Severity == check.SeverityError {
					log.Error("content problem", logger.String("finding", f.String()))
				} else {
					log.Warn("content problem", logger.String("finding", f.String()))
				}
			}
			log.Info("content checked",
				logger.Int("posts", rep.Loaded["posts"]),
				logger.Int("charts", rep.Loaded["charts"]),
				logger.Int("errors", rep.Errors()),
			)
		}
		runCheck(ctx)

		w := &watch.Watcher{
			Dirs:     watch.DirsFor(candidates),
			Debounce: watch.DefaultDebounce,
			OnChange: runCheck,
			Log:      log,
		}
		return w.Run(ctx)
	},
}
