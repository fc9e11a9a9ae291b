package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"prompt-polish/internal/domain"
	apperrors "prompt-polish/pkg/errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEnhancer streams polished prompts through the chat completions API.
type OpenAIEnhancer struct {
	client *openai.Client
	model  string
	logger domain.Logger
}

// NewOpenAIEnhancer creates the OpenAI enhancer.
func NewOpenAIEnhancer(apiKey, model string, logger domain.Logger) (*OpenAIEnhancer, error) {
	if apiKey == "" {
		return nil, apperrors.NewConfigError("openai api key not configured")
	}

	return &OpenAIEnhancer{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

func (e *OpenAIEnhancer) Name() string {
	return "openai"
}

// EnhanceStream opens a chat completion stream and forwards delta content.
func (e *OpenAIEnhancer) EnhanceStream(ctx context.Context, req domain.EnhanceRequest) (<-chan domain.StreamChunk, error) {
	stream, err := e.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemInstruction(req.Mode),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		Stream: true,
	})
	if err != nil {
		return nil, apperrors.NewUpstreamError("failed to start openai stream", err)
	}

	out := make(chan domain.StreamChunk)
	go func() {
		defer close(out)
		defer stream.Close()
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				e.logger.Error("OpenAI stream failed", err, "model", e.model)
				select {
				case out <- domain.StreamChunk{Err: fmt.Errorf("openai stream failed: %w", err)}:
				case <-ctx.Done():
				}
				return
			}

			if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
				continue
			}
			select {
			case out <- domain.StreamChunk{Text: resp.Choices[0].Delta.Content}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
