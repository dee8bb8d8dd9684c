// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8521 {
		t.Errorf("Server.Port = %d, want 8521", cfg.Server.Port)
	}
	if cfg.Similarity.TopNeighbors != 20 {
		t.Errorf("Similarity.TopNeighbors = %d, want 20", cfg.Similarity.TopNeighbors)
	}
	if cfg.Constellation.MinRatings != 50 {
		t.Errorf("Constellation.MinRatings = %d, want 50", cfg.Constellation.MinRatings)
	}
	if cfg.Constellation.SimilarityThreshold != 0.3 {
		t.Errorf("Constellation.SimilarityThreshold = %v, want 0.3", cfg.Constellation.SimilarityThreshold)
	}
	if cfg.Constellation.MaxConnections != 5 {
		t.Errorf("Constellation.MaxConnections = %d, want 5", cfg.Constellation.MaxConnections)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
similarity:
  top_neighbors: 30
constellation:
  similarity_threshold: 0.5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Similarity.TopNeighbors != 30 {
		t.Errorf("Similarity.TopNeighbors = %d, want 30", cfg.Similarity.TopNeighbors)
	}
	if cfg.Constellation.SimilarityThreshold != 0.5 {
		t.Errorf("SimilarityThreshold = %v, want 0.5", cfg.Constellation.SimilarityThreshold)
	}
	// Unset sections keep their defaults.
	if cfg.API.DefaultTopN != 10 {
		t.Errorf("API.DefaultTopN = %d, want default 10", cfg.API.DefaultTopN)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9001")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SIMILARITY_WORKERS", "4")
	t.Setenv("HTTP_TIMEOUT", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, want env override 9001", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Similarity.Workers != 4 {
		t.Errorf("Similarity.Workers = %d, want 4", cfg.Similarity.Workers)
	}
	if cfg.Server.Timeout != 45*time.Second {
		t.Errorf("Server.Timeout = %v, want 45s", cfg.Server.Timeout)
	}
}

func TestLoadIgnoresUnmappedEnv(t *testing.T) {
	t.Setenv("PATH_SUFFIX_NOISE", "whatever")

	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }},
		{name: "zero top neighbors", mutate: func(c *Config) { c.Similarity.TopNeighbors = 0 }},
		{name: "threshold above one", mutate: func(c *Config) { c.Constellation.SimilarityThreshold = 1.5 }},
		{name: "zero max connections", mutate: func(c *Config) { c.Constellation.MaxConnections = 0 }},
		{name: "default exceeds max topN", mutate: func(c *Config) { c.API.DefaultTopN = 500 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 8521}
	if got := c.Addr(); got != "127.0.0.1:8521" {
		t.Errorf("Addr() = %q", got)
	}
}
