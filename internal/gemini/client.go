// Package gemini implements the inference collaborator on Google's Gemini
// API. It exposes a single completion primitive; prompt construction and
// response parsing belong to the classifier.
package gemini

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/edgard/jobscout/internal/config"
)

// Client wraps the genai SDK for single-shot completions.
type Client struct {
	genaiClient *genai.Client
	logger      *slog.Logger
	cfg         *genai.GenerateContentConfig
	modelName   string
	timeout     time.Duration
}

// NewClient creates a new Gemini client with the provided configuration.
func NewClient(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	temperature := cfg.Temperature
	log := logger.With("component", "gemini_client")
	log.Info("Gemini client initialized", "model", cfg.Model, "temperature", temperature)

	return &Client{
		genaiClient: gi,
		logger:      log,
		cfg: &genai.GenerateContentConfig{
			Temperature: &temperature,
		},
		modelName: cfg.Model,
		timeout:   cfg.Timeout,
	}, nil
}

// Complete issues exactly one generation request and returns the raw model
// text. The call is bounded by the configured timeout and never retried:
// a retry against the paid backend would double the cost of a cycle, and
// the next scheduled run covers the gap anyway.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	started := time.Now()
	resp, err := c.genaiClient.Models.GenerateContent(callCtx, c.modelName, contents, c.cfg)
	if err != nil {
		c.logger.ErrorContext(ctx, "Gemini API call failed", "error", err, "duration", time.Since(started))
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reason := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reason = resp.PromptFeedback.BlockReasonMessage
		}
		c.logger.ErrorContext(ctx, "Gemini request blocked", "reason", reason)
		return "", fmt.Errorf("gemini request blocked by safety filter: %s", reason)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}

	c.logger.InfoContext(ctx, "Gemini completion received",
		"response_size", len(text), "duration", time.Since(started))
	return text, nil
}
