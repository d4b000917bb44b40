// Package textgen produces short supportive texts through an
// OpenAI-compatible chat completions API.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/mrmorrispmorris/dailymood/backend/internal/logger"
)

// ErrUnavailable is returned when no API key is configured
var ErrUnavailable = errors.New("text generation is not configured")

// ErrEmptyResponse is returned when the model answers with no text
var ErrEmptyResponse = errors.New("empty response from model")

// Generator turns a system prompt and a user prompt into a reply
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Config configures the OpenAI generator
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

type openAIGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// New returns an OpenAI-backed generator, or a disabled one when cfg has no
// API key
func New(cfg Config) Generator {
	if cfg.APIKey == "" {
		return Disabled{}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &openAIGenerator{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     timeout,
	}
}

func (g *openAIGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}

	logger.Ctx(ctx).Debug("chat completion received",
		logger.String("model", g.model),
		logger.Int("total_tokens", resp.Usage.TotalTokens),
		logger.Duration("duration", time.Since(start)),
	)

	return text, nil
}

// Disabled is the generator used without an API key; callers fall back to
// local text
type Disabled struct{}

func (Disabled) Generate(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}
