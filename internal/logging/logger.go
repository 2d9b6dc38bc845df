// Package logging provides named component loggers for the orchestration
// engine, built on zap. Until Init is called every accessor returns a
// no-op logger, which keeps tests silent without extra plumbing.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.RWMutex
	root = zap.NewNop()
)

// Init configures the process-wide root logger. level is one of
// debug/info/warn/error; development selects the human-readable console
// encoder instead of JSON.
func Init(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	mu.Lock()
	root = logger
	mu.Unlock()
	return nil
}

// Sync flushes buffered log entries. Call at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}

// L returns the root logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

func named(name string) *zap.Logger {
	return L().Named(name)
}

// Component accessors. One per subsystem, mirroring the package layout.

func Router() *zap.Logger       { return named("router") }
func Tools() *zap.Logger        { return named("tools") }
func Pipeline() *zap.Logger     { return named("pipeline") }
func Workflow() *zap.Logger     { return named("workflow") }
func Orchestrator() *zap.Logger { return named("orchestrator") }
func Store() *zap.Logger        { return named("store") }
func LLM() *zap.Logger          { return named("llm") }
func API() *zap.Logger          { return named("api") }
