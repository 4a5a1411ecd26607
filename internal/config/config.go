// Package config loads the tinyrel configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the settings shared by the terminal client and the
// server. Zero values fall back to the defaults below.
type Config struct {
	// Path of the sqlite document store; empty means in-memory.
	StorePath string `yaml:"store_path"`
	// Prompt label printed in front of every status line.
	Prompt string `yaml:"prompt"`

	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds the network front-end settings.
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`
	// Cron spec for periodic store compaction; empty disables it.
	VacuumSchedule string `yaml:"vacuum_schedule"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Prompt: "db",
		Server: ServerConfig{
			HTTPAddr: ":8080",
			GRPCAddr: ":9090",
		},
	}
}

// Load reads a YAML configuration file over the defaults. A missing file
// is not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "db"
	}
	return cfg, nil
}
