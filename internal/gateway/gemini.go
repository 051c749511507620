package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync/atomic"

	"google.golang.org/genai"
)

// counter hands out round-robin indices; safe for concurrent invocations.
type counter struct {
	n atomic.Uint64
}

func (c *counter) index(mod int) int {
	return int(c.n.Add(1)-1) % mod
}

// Invoke sends the prompt to Gemini and returns the raw reply text.
// Exactly one attempt is made; failures come back as a classified *ModelError.
// The per-call timeout is enforced here, not by the caller, so a run's time
// budget scales with the number of attempted calls.
func (g *implGateway) Invoke(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", NewModelError(KindTimeout, fmt.Errorf("rate limiter wait: %w", err))
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		Temperature:    genai.Ptr(float32(params.Temperature)),
		CandidateCount: 1,
	}
	if params.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(params.MaxOutputTokens)
	}

	idx := g.next.index(len(g.clients))
	client := g.clients[idx]

	g.logger.Debug(ctx, "Sending model request (key %d/%d, %d prompt chars)", idx+1, len(g.clients), len(prompt))

	resp, err := client.Models.GenerateContent(callCtx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", classify(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", NewModelError(KindMalformedResponse, fmt.Errorf("empty response from model"))
	}

	return text, nil
}

// classify maps transport and API failures onto the gateway error taxonomy.
// Server-side 5xx responses are grouped with timeouts: both are transient
// conditions the caller may retry with backoff.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return NewModelError(KindRateLimited, err)
		case apiErr.Code == 401 || apiErr.Code == 403:
			return NewModelError(KindAuth, err)
		case apiErr.Code == 408 || apiErr.Code/100 == 5:
			return NewModelError(KindTimeout, err)
		}
		return NewModelError(KindUnknown, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewModelError(KindTimeout, err)
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return NewModelError(KindTimeout, err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "quota"):
		return NewModelError(KindRateLimited, err)
	case strings.Contains(msg, "API key") || strings.Contains(msg, "PERMISSION_DENIED"):
		return NewModelError(KindAuth, err)
	}

	return NewModelError(KindUnknown, err)
}
