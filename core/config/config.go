/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config loads settings from built-in defaults, an optional YAML
// file and DA_* environment variables, in that order, and validates them.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "DA"

// Config holds the settings shared by all actions.
type Config struct {
	MissingChar     string `yaml:"missing_char" envconfig:"MISSING_CHAR" validate:"required"`
	NotApplicable   string `yaml:"not_applicable" envconfig:"NOT_APPLICABLE" validate:"required,nefield=MissingChar"`
	StddevPrecision int    `yaml:"stddev_precision" envconfig:"STDDEV_PRECISION" validate:"min=0,max=12"`
	Delimiter       string `yaml:"delimiter" envconfig:"DELIMITER"`
	BinCount        int    `yaml:"bin_count" envconfig:"BIN_COUNT" validate:"min=1"`
	TopN            int    `yaml:"top_n" envconfig:"TOP_N" validate:"min=1"`
	RepeatHeading   int    `yaml:"repeat_heading" envconfig:"REPEAT_HEADING" validate:"min=0"`
	FastCellWidth   int    `yaml:"fast_cell_width" envconfig:"FAST_CELL_WIDTH" validate:"min=1"`
	BarWidth        int    `yaml:"bar_width" envconfig:"BAR_WIDTH" validate:"min=1,max=200"`
	LogLevel        string `yaml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat       string `yaml:"log_format" envconfig:"LOG_FORMAT" validate:"oneof=text json"`
	// Extensions is a Go source file of extra transform functions.
	Extensions string `yaml:"extensions" envconfig:"EXTENSIONS"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		MissingChar:     "-",
		NotApplicable:   "*",
		StddevPrecision: 3,
		Delimiter:       " ",
		BinCount:        20,
		TopN:            5,
		RepeatHeading:   40,
		FastCellWidth:   15,
		BarWidth:        20,
		LogLevel:        "warn",
		LogFormat:       "text",
	}
}

// Load builds the configuration. path names the YAML file; when empty,
// DA_CONFIG is used, then $XDG_CONFIG_HOME/da/config.yaml if it exists.
// Environment variables override the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path, explicit = os.Getenv(EnvPrefix+"_CONFIG"), os.Getenv(EnvPrefix+"_CONFIG") != ""
	}
	if !explicit {
		path = defaultPath()
	}
	if path != "" {
		err := cfg.loadFile(path)
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			err = nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "da", "config.yaml")
}

// loadFile overlays the YAML file on c. Keys absent from the file keep
// their current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// NewLogger builds the process logger writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.LogLevel)}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}
