package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/gateway"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/orchestrator"
	"github.com/nguyentantai21042004/minutes-flow/internal/progress"
	"github.com/nguyentantai21042004/minutes-flow/internal/stage"
)

// app wires the configured pipeline components for the CLI commands.
type app struct {
	cfg          *config.Config
	logger       logger.Logger
	orchestrator *orchestrator.Orchestrator
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level)

	gw, err := gateway.New(ctx, cfg.Gemini, log)
	if err != nil {
		return nil, fmt.Errorf("init gateway: %w", err)
	}

	retry := stage.RetryConfig{
		MaxAttempts:       cfg.Retry.MaxAttempts,
		BackoffBase:       time.Duration(cfg.Retry.BackoffBaseMs) * time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        time.Duration(cfg.Retry.BackoffMaxMs) * time.Millisecond,
	}

	runner := stage.NewRunner(gw, progress.NewConsole(os.Stderr), log, retry)
	defs := stage.Definitions(cfg.Generation.Temperature, cfg.Generation.MaxOutputTokens)

	return &app{
		cfg:          cfg,
		logger:       log,
		orchestrator: orchestrator.New(runner, defs, log),
	}, nil
}
