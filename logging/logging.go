/*
 * Copyright © 2025 Graymoor Interactive, All rights reserved.
 */

// Package logging provides named zap loggers for the mudstore subsystems.
package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.RWMutex
	root *zap.SugaredLogger
)

// Configure rebuilds the root logger at the given level ("debug", "info",
// "warn", "error").  It is typically called once from settings loading;
// packages that fetched loggers earlier keep their old instances.
func Configure(level string) error {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	root = logger.Sugar()
	return nil
}

// Get returns a named logger for a subsystem (for example "attrs" or
// "storage").  A default development logger is built lazily if Configure
// has not been called.
func Get(name string) *zap.SugaredLogger {
	mu.RLock()
	r := root
	mu.RUnlock()

	if r == nil {
		mu.Lock()
		if root == nil {
			cfg := zap.NewDevelopmentConfig()
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			logger, err := cfg.Build()
			if err != nil {
				logger = zap.NewNop()
			}
			root = logger.Sugar()
		}
		r = root
		mu.Unlock()
	}
	return r.Named(name)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
