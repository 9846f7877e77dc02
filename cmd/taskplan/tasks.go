package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func tasksCmd() *cobra.Command {
	var blocked bool
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List every task with its readiness and score",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cfg, closeStore, err := buildEngine()
			if err != nil {
				return err
			}
			defer closeStore()
			evals, err := eng.Evaluations(cmd.Context(), cfg.Schema())
			if err != nil {
				return err
			}
			for _, ev := range evals {
				if blocked && ev.IsNextAction {
					continue
				}
				state := "next"
				if !ev.IsNextAction {
					state = ev.Task.Status.String()
					if reason, ok := ev.BlockedReason.Primary(); ok {
						state = reason.String()
					}
				}
				fmt.Printf("%8.3f  %-26s  %-12s  %s\n", ev.Score, state, ev.Task.ID, ev.Task.Text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&blocked, "blocked", false, "only show tasks that are not next actions")
	return cmd
}
