// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinestellation/config.yaml",
	"/etc/cinestellation/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults, applied before file and
// environment layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8521,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Store: StoreConfig{
			Path: "/data/cinestellation",
		},
		Dataset: DatasetConfig{
			MoviesPath:  "/data/movies.csv",
			RatingsPath: "/data/ratings.csv",
		},
		Similarity: SimilarityConfig{
			TopNeighbors: 20,
			Workers:      0, // 0 = runtime.NumCPU()
		},
		Constellation: ConstellationConfig{
			MinRatings:          50,
			SimilarityThreshold: 0.3,
			MaxConnections:      5,
		},
		API: APIConfig{
			DefaultTopN: 10,
			MaxTopN:     100,
			RateLimit:   100,
			RatePeriod:  time.Minute,
		},
	}
}

// Load builds the configuration from layered sources:
//  1. built-in defaults
//  2. optional YAML config file
//  3. environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps flat environment variable names (lowercased) to nested
// config paths. Unmapped variables are ignored so unrelated environment
// noise cannot leak into the configuration.
var envMappings = map[string]string{
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"store_path":      "store.path",
	"store_in_memory": "store.in_memory",

	"movies_path":  "dataset.movies_path",
	"ratings_path": "dataset.ratings_path",

	"similarity_top_neighbors": "similarity.top_neighbors",
	"similarity_workers":       "similarity.workers",

	"constellation_min_ratings":          "constellation.min_ratings",
	"constellation_similarity_threshold": "constellation.similarity_threshold",
	"constellation_max_connections":      "constellation.max_connections",

	"api_default_top_n": "api.default_top_n",
	"api_max_top_n":     "api.max_top_n",
	"api_rate_limit":    "api.rate_limit",
	"api_rate_period":   "api.rate_period",
}

// envTransformFunc maps an environment variable name to its koanf path,
// or "" to drop it.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
