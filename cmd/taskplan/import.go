package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/blockstore"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <seed.yaml>",
		Short: "Import a YAML outline into the block store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			n, err := blockstore.ImportSeed(cmd.Context(), store, f)
			if err != nil {
				return err
			}
			log.Info().Int("blocks", n).Msg("seed imported")
			return nil
		},
	}
}
