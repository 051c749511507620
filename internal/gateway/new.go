package gateway

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

type implGateway struct {
	clients     []*genai.Client
	model       string
	callTimeout time.Duration
	limiter     *rate.Limiter
	logger      logger.Logger
	next        counter
}

// New creates a Gemini-backed Gateway. One client is built per API key and
// keys are rotated round-robin across calls; all shared state is read-only
// after construction, so the gateway is safe for concurrent use.
func New(ctx context.Context, cfg config.GeminiConfig, log logger.Logger) (Gateway, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, fmt.Errorf("at least one API key is required")
	}

	clients := make([]*genai.Client, 0, len(cfg.APIKeys))
	for i, key := range cfg.APIKeys {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create client for key %d: %w", i+1, err)
		}
		clients = append(clients, client)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60.0), 1)
	}

	callTimeout := time.Duration(cfg.CallTimeoutSec) * time.Second
	if callTimeout <= 0 {
		callTimeout = 120 * time.Second
	}

	return &implGateway{
		clients:     clients,
		model:       cfg.Model,
		callTimeout: callTimeout,
		limiter:     limiter,
		logger:      log,
	}, nil
}
