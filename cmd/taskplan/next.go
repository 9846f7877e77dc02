package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/engine"
)

func nextCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "next",
		Short: "List actionable tasks, highest score first",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cfg, closeStore, err := buildEngine()
			if err != nil {
				return err
			}
			defer closeStore()
			evals, err := eng.NextActions(cmd.Context(), cfg.Schema())
			if err != nil {
				return err
			}
			if len(evals) == 0 {
				fmt.Println("no next actions")
				return nil
			}
			if limit > 0 && len(evals) > limit {
				evals = evals[:limit]
			}
			for _, ev := range evals {
				fmt.Printf("%8.3f  %-12s  %s%s\n", ev.Score, ev.Task.ID, ev.Task.Text, dueSuffix(ev))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "max tasks to list (0 = all)")
	return cmd
}

func dueSuffix(ev *engine.Evaluation) string {
	if ev.Task.EndTime == nil {
		return ""
	}
	return fmt.Sprintf("  (due %s)", ev.Task.EndTime.Format(time.DateOnly))
}
