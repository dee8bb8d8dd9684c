// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

// Package config loads layered configuration: built-in defaults, an
// optional YAML file, then environment variables, with env winning.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the full application configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Logging       LoggingConfig       `koanf:"logging"`
	Store         StoreConfig         `koanf:"store"`
	Dataset       DatasetConfig       `koanf:"dataset"`
	Similarity    SimilarityConfig    `koanf:"similarity"`
	Constellation ConstellationConfig `koanf:"constellation"`
	API           APIConfig           `koanf:"api"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// StoreConfig configures the embedded document store.
type StoreConfig struct {
	Path     string `koanf:"path" validate:"required_if=InMemory false"`
	InMemory bool   `koanf:"in_memory"`
}

// DatasetConfig points at the CSV inputs for ingestion.
type DatasetConfig struct {
	MoviesPath  string `koanf:"movies_path"`
	RatingsPath string `koanf:"ratings_path"`
}

// SimilarityConfig bounds the similarity computing pass.
type SimilarityConfig struct {
	// TopNeighbors is how many neighbors per movie survive persistence.
	TopNeighbors int `koanf:"top_neighbors" validate:"min=1"`

	// Workers is the similarity worker count, 0 for NumCPU.
	Workers int `koanf:"workers" validate:"min=0"`
}

// ConstellationConfig bounds constellation graph construction.
type ConstellationConfig struct {
	MinRatings          int     `koanf:"min_ratings" validate:"min=0"`
	SimilarityThreshold float64 `koanf:"similarity_threshold" validate:"min=0,max=1"`
	MaxConnections      int     `koanf:"max_connections" validate:"min=1"`
}

// APIConfig bounds the HTTP API surface.
type APIConfig struct {
	// DefaultTopN is the recommendation count when the request omits one.
	DefaultTopN int `koanf:"default_top_n" validate:"min=1"`

	// MaxTopN caps the per-request recommendation count.
	MaxTopN int `koanf:"max_top_n" validate:"min=1"`

	// RateLimit is requests per RatePeriod per client IP, 0 to disable.
	RateLimit  int           `koanf:"rate_limit" validate:"min=0"`
	RatePeriod time.Duration `koanf:"rate_period" validate:"min=1s"`
}

// Validate checks the configuration for structural and cross-field errors.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.API.DefaultTopN > c.API.MaxTopN {
		return fmt.Errorf("api.default_top_n (%d) exceeds api.max_top_n (%d)", c.API.DefaultTopN, c.API.MaxTopN)
	}
	return nil
}
