// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/juju/errors"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
)

// Environment overrides, applied after the config file.
const (
	EnvLogLevel = "NVIMRPC_LOG_LEVEL"
	EnvAddress  = "NVIMRPC_ADDRESS"
	// EnvNvim is set by Neovim to its server address in child processes.
	EnvNvim = "NVIM"
)

type config struct {
	Address        string
	Embed          string
	EmbedArgs      []string
	LogLevel       slog.Level
	LogTraffic     bool
	MaxMessageSize int
	SkipValidation bool
	Timeout        time.Duration
	Trace          bool
}

type fileConfig struct {
	Address        string   `toml:"address"`
	Embed          string   `toml:"embed"`
	EmbedArgs      []string `toml:"embed_args"`
	LogLevel       string   `toml:"log_level"`
	LogTraffic     bool     `toml:"log_traffic"`
	MaxMessageSize int      `toml:"max_message_size"`
	SkipValidation bool     `toml:"skip_validation"`
	Timeout        string   `toml:"timeout"`
	Trace          bool     `toml:"trace"`
}

func defaultConfig() config {
	return config{
		Address:   os.Getenv(EnvNvim),
		Embed:     "nvim",
		EmbedArgs: []string{"--clean", "--headless"},
		LogLevel:  slog.LevelInfo,
		Timeout:   10 * time.Second,
	}
}

// defaultConfigPath returns the user config file if it exists.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "nvimrpc", "config.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// loadConfig reads path over the defaults and applies environment
// overrides. An empty path skips the file.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return config{}, errors.Trace(err)
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return config{}, errors.Trace(err)
	}
	return cfg, nil
}

func applyFile(cfg *config, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return errors.Annotatef(err, "load config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return errors.NotValidf("config key %q", undecoded[0].String())
	}

	if meta.IsDefined("address") {
		cfg.Address = strings.TrimSpace(raw.Address)
	}
	if meta.IsDefined("embed") {
		cfg.Embed = strings.TrimSpace(raw.Embed)
	}
	if meta.IsDefined("embed_args") {
		cfg.EmbedArgs = raw.EmbedArgs
	}
	if meta.IsDefined("log_level") {
		lvl, err := nvimrpc.ParseLogLevel(raw.LogLevel)
		if err != nil {
			return errors.Annotate(err, "parse log_level")
		}
		cfg.LogLevel = lvl
	}
	if meta.IsDefined("log_traffic") {
		cfg.LogTraffic = raw.LogTraffic
	}
	if meta.IsDefined("max_message_size") {
		if raw.MaxMessageSize < 0 {
			return errors.NotValidf("max_message_size %d", raw.MaxMessageSize)
		}
		cfg.MaxMessageSize = raw.MaxMessageSize
	}
	if meta.IsDefined("skip_validation") {
		cfg.SkipValidation = raw.SkipValidation
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return errors.Annotate(err, "parse timeout")
		}
		cfg.Timeout = d
	}
	if meta.IsDefined("trace") {
		cfg.Trace = raw.Trace
	}
	return nil
}

func applyEnvOverrides(cfg *config) error {
	if v := os.Getenv(EnvLogLevel); strings.TrimSpace(v) != "" {
		lvl, err := nvimrpc.ParseLogLevel(v)
		if err != nil {
			return errors.Annotate(err, EnvLogLevel)
		}
		cfg.LogLevel = lvl
	}
	if v := strings.TrimSpace(os.Getenv(EnvAddress)); v != "" {
		cfg.Address = v
	}
	return nil
}
