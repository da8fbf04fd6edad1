package assistant

import (
	"context"
	"strings"

	"traffic-assistant-be/internal/pkg/apperror"
	"traffic-assistant-be/internal/pkg/logger"
	"traffic-assistant-be/pkg/llm"
)

const EmptyReplyText = "I couldn't generate a proper response. Could you please rephrase your question?"

const module = "TrafficLawResponder"

// Responder answers a question given the prior turns of the conversation.
type Responder interface {
	GenerateResponse(ctx context.Context, message string, history []llm.Message) (string, error)
}

type TrafficLawResponder struct {
	backend llm.LLMProvider
	logger  logger.ILogger
	opts    []llm.Option
}

var _ Responder = &TrafficLawResponder{}

func NewTrafficLawResponder(backend llm.LLMProvider, logger logger.ILogger, opts ...llm.Option) *TrafficLawResponder {
	return &TrafficLawResponder{
		backend: backend,
		logger:  logger,
		opts:    opts,
	}
}

// GenerateResponse frames the question with the traffic-law system prompt and recent history.
// Backend failures come back as upstream errors; an empty reply is replaced by EmptyReplyText.
func (r *TrafficLawResponder) GenerateResponse(ctx context.Context, message string, history []llm.Message) (string, error) {
	reply, err := r.backend.Generate(ctx, buildPrompt(message, history), r.opts...)
	if err != nil {
		return "", apperror.Upstream("llm call failed", err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		r.logger.Warn(module, "Empty response from model", nil)
		return EmptyReplyText, nil
	}
	return reply, nil
}
