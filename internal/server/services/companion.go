package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/mindease/internal/common"
	"github.com/dmitrijs2005/mindease/internal/server/metrics"
)

const MaxChatMessageLength = 2000

// Generator is the opaque text model behind the companion.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type CompanionService struct {
	gen     Generator
	timeout time.Duration
}

func NewCompanionService(gen Generator, timeout time.Duration) *CompanionService {
	return &CompanionService{gen: gen, timeout: timeout}
}

func companionPrompt(message string) string {
	return fmt.Sprintf("As a mental health companion, respond to this message from a Gen Z user: \"%s\". "+
		"Keep it empathetic (1-2 sentences max).", message)
}

// Reply asks the model for a short empathetic answer to message.
func (s *CompanionService) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", common.WithMessage(common.ErrValidation, "message is required")
	}
	if utf8.RuneCountInString(message) > MaxChatMessageLength {
		return "", common.WithMessage(common.ErrValidation,
			fmt.Sprintf("message must be at most %d characters", MaxChatMessageLength))
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.gen.Generate(ctx, companionPrompt(message))
	metrics.RecordCompanionCall(time.Since(start), err == nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrUpstreamFailure, err)
	}
	return text, nil
}
