package service

import (
	"context"
	"fmt"

	"prompt-polish/internal/domain"
	apperrors "prompt-polish/pkg/errors"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

// GeminiEnhancer streams polished prompts from Vertex AI.
type GeminiEnhancer struct {
	client *genai.Client
	model  string
	logger domain.Logger
}

// NewGeminiEnhancer creates the Vertex AI enhancer. Client creation fails
// fast when the project is not configured or credentials are missing.
func NewGeminiEnhancer(ctx context.Context, projectID, location, model string, logger domain.Logger) (*GeminiEnhancer, error) {
	if projectID == "" {
		return nil, apperrors.NewConfigError("google project id not configured")
	}

	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}

	return &GeminiEnhancer{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (e *GeminiEnhancer) Name() string {
	return "gemini"
}

// EnhanceStream starts a streaming generation and forwards chunks on the
// returned channel. The channel closes after the terminal chunk; a mid-stream
// failure arrives as a chunk with Err set.
func (e *GeminiEnhancer) EnhanceStream(ctx context.Context, req domain.EnhanceRequest) (<-chan domain.StreamChunk, error) {
	model := e.client.GenerativeModel(e.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemInstruction(req.Mode))},
	}

	iter := model.GenerateContentStream(ctx, genai.Text(req.Prompt))

	out := make(chan domain.StreamChunk)
	go func() {
		defer close(out)
		for {
			resp, err := iter.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				e.logger.Error("Gemini stream failed", err, "model", e.model)
				select {
				case out <- domain.StreamChunk{Err: fmt.Errorf("gemini stream failed: %w", err)}:
				case <-ctx.Done():
				}
				return
			}

			text := responseText(resp)
			if text == "" {
				continue
			}
			select {
			case out <- domain.StreamChunk{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	return text
}
