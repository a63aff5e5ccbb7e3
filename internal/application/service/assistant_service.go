package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nattapongw/travel-portal/internal/application/port"
)

const assistantSystemPrompt = "You are a travel desk assistant for a corporate travel portal. " +
	"Answer questions about travel requests, policies and receipts concisely and in plain language. " +
	"Never invent policy numbers or approval decisions."

// AssistantService answers free-form traveler questions through the
// external text-generation contract, optionally grounding the answer in
// an uploaded receipt document.
type AssistantService interface {
	Ask(ctx context.Context, question, receiptPath string) (string, error)
}

type assistantServiceImpl struct {
	generator port.TextGenerator
	receipts  port.ReceiptReader
	logger    Logger
}

// NewAssistantService creates a new AssistantService. receipts may be
// nil when no document reader is configured.
func NewAssistantService(generator port.TextGenerator, receipts port.ReceiptReader, logger Logger) AssistantService {
	return &assistantServiceImpl{
		generator: generator,
		receipts:  receipts,
		logger:    logger,
	}
}

func (s *assistantServiceImpl) Ask(ctx context.Context, question, receiptPath string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question must not be empty")
	}

	prompt := question
	if receiptPath != "" {
		if s.receipts == nil {
			return "", fmt.Errorf("receipt reading is not configured")
		}
		text, err := s.receipts.ExtractText(ctx, receiptPath)
		if err != nil {
			s.logger.Error("Failed to extract receipt text", "error", err, "path", receiptPath)
			return "", err
		}
		prompt = fmt.Sprintf("Receipt contents:\n%s\n\nQuestion: %s", text, question)
	}

	answer, err := s.generator.Generate(ctx, assistantSystemPrompt, prompt)
	if err != nil {
		s.logger.Error("Assistant generation failed", "error", err)
		return "", err
	}
	return answer, nil
}
