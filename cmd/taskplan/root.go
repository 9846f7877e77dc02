package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/logging"
)

var (
	cfgFile string
	debug   bool
	rootCmd = &cobra.Command{
		Use:   "taskplan",
		Short: "taskplan ranks task blocks by readiness and priority",
	}
)

// Execute runs the root command.
func Execute() error {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", filepath.Join(".taskplan", "config.json"), "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("bind config flag: %w", err)
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Init(debug)
	}
	rootCmd.AddCommand(nextCmd())
	rootCmd.AddCommand(tasksCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(configCmd())
	return rootCmd.Execute()
}

func initConfig() {
	_ = godotenv.Load()
	path := cfgFile
	if path == "" {
		path = filepath.Join(".taskplan", "config.json")
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("json")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
}
