// Package openai adapts the OpenAI chat API to the narrow text
// generation contract the travel assistant consumes.
package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Config holds OpenAI API settings
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Generator implements port.TextGenerator
type Generator struct {
	client *openai.Client
	cfg    Config
	logger *zap.Logger
}

// NewGenerator creates a new OpenAI-backed text generator
func NewGenerator(cfg Config, logger *zap.Logger) *Generator {
	return &Generator{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger,
	}
}

// Generate sends a single system+user exchange and returns the reply text.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		g.logger.Error("OpenAI API call failed", zap.Error(err))
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}
