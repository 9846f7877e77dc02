package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sc := cfg.Schema()
			out, err := json.MarshalIndent(map[string]any{
				"tag_alias": sc.TagAlias,
				"statuses": map[string][]string{
					"todo":     sc.Statuses.Todo,
					"doing":    sc.Statuses.Doing,
					"done":     sc.Statuses.Done,
					"waiting":  sc.Statuses.Waiting,
					"canceled": sc.Statuses.Canceled,
				},
				"properties": sc.Props,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
