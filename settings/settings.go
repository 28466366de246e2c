/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

// Package settings loads server configuration from YAML with environment
// overrides.  A .env file, if present, is loaded first via godotenv.
package settings

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DynamoDB holds credentials and table configuration for the ddb backend.
type DynamoDB struct {
	Region    string `yaml:"region"`
	Table     string `yaml:"table"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Settings is the full configuration for the persistence core.
type Settings struct {
	// DataDir is the root directory for file-backed stores.
	DataDir string `yaml:"data_dir"`
	// CacheSize is the default capacity of per-type entity caches.
	CacheSize int `yaml:"cache_size"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// DynamoDB configures the optional DynamoDB backend.
	DynamoDB DynamoDB `yaml:"dynamodb"`
}

// Default returns the built-in defaults.
func Default() Settings {
	return Settings{
		DataDir:   "data",
		CacheSize: 512,
		LogLevel:  "info",
	}
}

// Load reads settings from the given YAML file and applies environment
// overrides.  A missing file is not an error; defaults are used.
func Load(path string) (Settings, error) {
	_ = godotenv.Load()

	s := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return s, fmt.Errorf("failed to read settings file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(raw, &s); err != nil {
			return s, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}

	applyEnv(&s)

	if s.CacheSize <= 0 {
		s.CacheSize = Default().CacheSize
	}
	return s, nil
}

func applyEnv(s *Settings) {
	if v := os.Getenv("MUD_DATA_DIR"); v != "" {
		s.DataDir = v
	}
	if v := os.Getenv("MUD_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.CacheSize = n
		}
	}
	if v := os.Getenv("MUD_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		s.DynamoDB.Region = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		s.DynamoDB.AccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		s.DynamoDB.SecretKey = v
	}
	if v := os.Getenv("MUD_DDB_TABLE"); v != "" {
		s.DynamoDB.Table = v
	}
}
