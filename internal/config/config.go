// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config holds the go-deps run configuration: flag, environment,
// and config-file values merged by viper, with defaults and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-deps/pkg/deps"
)

// ErrInvalidConfig classifies configuration errors.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	defaultLang     = "auto"
	defaultLogLevel = "warn"
)

// Config configures a go-deps run.
type Config struct {
	WorkDir     string   // Root directory (required)
	Lang        string   // auto, csharp or go (default auto)
	Rev         string   // Git revision to read sources at; empty reads the worktree
	Include     []string // Glob patterns; empty includes every source file
	Exclude     []string // Glob patterns
	CacheSize   int      // Resolver cache entries; negative disables caching (default deps.DefaultCacheSize)
	Concurrency int      // Files analyzed in parallel (default NumCPU)
	LogLevel    string   // logrus level (default warn)
}

// Load reads the configuration from v. Keys match the CLI's global flags.
func Load(v *viper.Viper) Config {
	return Config{
		WorkDir:     v.GetString("workdir"),
		Lang:        v.GetString("lang"),
		Rev:         v.GetString("rev"),
		Include:     v.GetStringSlice("include"),
		Exclude:     v.GetStringSlice("exclude"),
		CacheSize:   v.GetInt("cache-size"),
		Concurrency: v.GetInt("concurrency"),
		LogLevel:    v.GetString("log-level"),
	}
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
	if c.Lang == "" {
		c.Lang = defaultLang
	}
	if c.CacheSize == 0 {
		c.CacheSize = deps.DefaultCacheSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.WorkDir == "" {
		return fmt.Errorf("%w: WorkDir is required", ErrInvalidConfig)
	}
	if info, err := os.Stat(c.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: WorkDir %q does not exist or is not a directory", ErrInvalidConfig, c.WorkDir)
	}
	switch c.Lang {
	case "auto", "csharp", "go":
	default:
		return fmt.Errorf("%w: unknown language %q", ErrInvalidConfig, c.Lang)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the configured log level, or warn when it does not parse.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}
