package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"astroblog/internal/check"
	"astroblog/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the posts and charts sources",
	Long: `Reads both content sources strictly and lists every problem found.
Exits non-zero when any error is reported; warnings alone do not fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rep := check.Run(cmd.Context(), store.New(cfg, log, nil))
		out := cmd.OutOrStdout()
		for _, f := range rep.Findings {
			fmt.Fprintln(out, f.String())
		}
		fmt.Fprintf(out, "posts=%d charts=%d errors=%d warnings=%d\n",
			rep.Loaded["posts"], rep.Loaded["charts"], rep.Errors(), len(rep.Findings)-rep.Errors())
		if !rep.OK() {
			return fmt.Errorf("content check failed with %d error(s)", rep.Errors())
		}
		return nil
	},
}
