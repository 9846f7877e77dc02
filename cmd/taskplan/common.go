package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/blockstore"
	"github.com/litcu/orca-plugin-task-planner-sub000/internal/config"
	"github.com/litcu/orca-plugin-task-planner-sub000/internal/engine"
)

func openStore() (*blockstore.Store, func(), error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, func() {}, err
	}
	dir := filepath.Join(root, ".taskplan")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, func() {}, err
	}
	db, err := blockstore.Open(filepath.Join(dir, "blocks.db"))
	if err != nil {
		return nil, func() {}, err
	}
	return blockstore.NewStore(db), func() { _ = db.Close() }, nil
}

func loadConfig() (config.Config, error) {
	var cfg config.Config
	if err := viper.ReadInConfig(); err != nil {
		// A missing config file means defaults; anything else is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := config.ValidateSettings(viper.AllSettings()); err != nil {
		return cfg, err
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func buildEngine() (*engine.Engine, config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, func() {}, err
	}
	store, closeStore, err := openStore()
	if err != nil {
		return nil, cfg, func() {}, err
	}
	return engine.New(store, store), cfg, closeStore, nil
}
