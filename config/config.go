// Copyright 2026 The SimCloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the simulator daemon's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the daemon settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// FixturePath is the JSON fixture the store loads at startup. A
	// missing file starts the daemon with an empty store.
	FixturePath string `yaml:"fixture_path"`

	// SavePath, when set, is where the store is written back on shutdown.
	SavePath string `yaml:"save_path"`

	// LogFormat selects the request log format: "ncsa" or "json".
	LogFormat string `yaml:"log_format"`

	// TraceFraction is the fraction of requests to sample for tracing,
	// between 0 and 1.
	TraceFraction float64 `yaml:"trace_fraction"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Addr:      ":8080",
		LogFormat: "ncsa",
	}
}

// Load reads a YAML configuration file. Fields absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %q: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must be set")
	}
	switch c.LogFormat {
	case "", "ncsa", "json":
	default:
		return fmt.Errorf("log_format %q: want ncsa or json", c.LogFormat)
	}
	if c.TraceFraction < 0 || c.TraceFraction > 1 {
		return fmt.Errorf("trace_fraction %v: want a value in [0, 1]", c.TraceFraction)
	}
	return nil
}
