package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/task"
)

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Edit task planning fields",
	}
	cmd.AddCommand(taskStatusCmd())
	cmd.AddCommand(taskDepCmd())
	cmd.AddCommand(taskModeCmd())
	cmd.AddCommand(taskDelayCmd())
	cmd.AddCommand(taskScheduleCmd())
	cmd.AddCommand(taskStarCmd())
	cmd.AddCommand(taskRateCmd())
	return cmd
}

func taskStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cfg, closeStore, err := buildEngine()
			if err != nil {
				return err
			}
			defer closeStore()
			sc := cfg.Schema()
			status, ok := sc.Statuses.Resolve(args[1])
			if !ok {
				return fmt.Errorf("unknown status %q", args[1])
			}
			if err := eng.MarkStatus(cmd.Context(), sc, args[0], status); err != nil {
				return err
			}
			log.Info().Str("task", args[0]).Stringer("status", status).Msg("status updated")
			return nil
		},
	}
}

func taskDepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Edit task dependencies",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <id> <depends-on-id>",
		Short: "Add a dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, closeStore, err := buildEngine()
			if err != nil {
				return err
			}
			defer closeStore()
			if err := eng.AddDependency(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			log.Info().Str("task", args[0]).Str("depends_on", args[1]).Msg("dependency added")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id> <depends-on-id>",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, closeStore, err := buildEngine()
			if err != nil {
				return err
			}
			defer closeStore()
			if err := eng.RemoveDependency(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			log.Info().Str("task", args[0]).Str("depends_on", args[1]).Msg("dependency removed")
			return nil
		},
	})
	return cmd
}

func taskModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode <id> <all|any>",
		Short: "Set the dependency combination mode",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var mode task.DependsMode
			switch strings.ToLower(args[1]) {
			case "all":
				mode = task.DependsAll
			case "any":
				mode = task.DependsAny
			default:
				return fmt.Errorf("mode must be all or any, got %q", args[1])
			}
			eng, cfg, closeStore, err := buildEngine()
			if err != nil {
				return err
			}
			defer closeStore()
			return eng.SetDependsMode(cmd.Context(), cfg.Schema(), args[0], mode)
		},
	}
}

func taskDelayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delay <id> <hours>",
		Short: "Set the post-completion dependency delay",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("parse hours: %w", err)
			}
			eng, cfg, closeStore, err := buildEngine()
			if err != nil {
				return err
			}
			defer closeStore()
			return eng.SetDependencyDelay(cmd.Context(), cfg.Schema(), args[0], hours)
		},
	}
}

func taskScheduleCmd() *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "schedule <id>",
		Short: "Set start/end times (RFC3339, empty clears)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startAt, err := parseInstantFlag(start)
			if err != nil {
				return fmt.Errorf("parse start: %w", err)
			}
			endAt, err := parseInstantFlag(end)
			if err != nil {
				return fmt.Errorf("parse end: %w", err)
			}
			eng, cfg, closeStore, err := buildEngine()
			if err != nil {
				return err
			}
			defer closeStore()
			return eng.SetSchedule(cmd.Context(), cfg.Schema(), args[0], startAt, endAt)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start time")
	cmd.Flags().StringVar(&end, "end", "", "end (due) time")
	return cmd
}

func taskStarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "star <id> <on|off>",
		Short: "Toggle the star flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cfg, closeStore, err := buildEngine()
			if err != nil {
				return err
			}
			defer closeStore()
			return eng.SetStar(cmd.Context(), cfg.Schema(), args[0], strings.EqualFold(args[1], "on"))
		},
	}
}

func taskRateCmd() *cobra.Command {
	var importance, urgency, effort float64
	cmd := &cobra.Command{
		Use:   "rate <id>",
		Short: "Set importance/urgency/effort scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cfg, closeStore, err := buildEngine()
			if err != nil {
				return err
			}
			defer closeStore()
			sc := cfg.Schema()
			ctx := cmd.Context()
			if cmd.Flags().Changed("importance") {
				if err := eng.SetImportance(ctx, sc, args[0], importance); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("urgency") {
				if err := eng.SetUrgency(ctx, sc, args[0], urgency); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("effort") {
				if err := eng.SetEffort(ctx, sc, args[0], effort); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&importance, "importance", 0, "importance 0-100")
	cmd.Flags().Float64Var(&urgency, "urgency", 0, "urgency 0-100")
	cmd.Flags().Float64Var(&effort, "effort", 0, "effort 0-100")
	return cmd
}

func parseInstantFlag(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
