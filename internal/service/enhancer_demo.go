package service

import (
	"context"
	"strings"
	"time"

	"prompt-polish/internal/domain"
)

// demoResponse is the canned polish served when no model provider is
// configured. It exercises every section the client-side segmenter knows.
const demoResponse = `[ANALYSIS]
Clarity: 45
Specificity: 30
Constraints: 20
Context: 55

[WEAKNESSES]
- No target audience or output format is specified.
- The request mixes several goals without ranking them.
- Missing constraints leave the model free to ramble.
- No examples anchor the expected style.

[IMPROVEMENTS]
- Assigned an explicit expert role to focus the response.
- Split the request into ordered, verifiable steps.
- Added hard constraints on length and format.
- Named the audience so tone and depth are pinned down.

[VERSION_A]
## Structured Implementation
You are a senior domain expert. Work through the task below step by step,
stating assumptions before conclusions, and deliver the result as a numbered
list with a one-line summary at the end.

[VERSION_B]
## Detailed Constraints
Complete the task under these rules: no filler, no hedging, cite a reason for
every claim, refuse gracefully if information is missing, and keep the answer
under 300 words.

[VERSION_C]
## Concise High-Impact
Act as an expert. Answer the task directly, in three tight paragraphs, leading
with the conclusion.`

// demoChunkSize keeps the fake stream visibly incremental.
const demoChunkSize = 24

// DemoEnhancer replays a canned response as a stream. Used when neither
// Gemini nor OpenAI is configured so the full pipeline stays exercisable.
type DemoEnhancer struct {
	delay  time.Duration
	logger domain.Logger
}

// NewDemoEnhancer creates a demo enhancer emitting chunks every delay.
// A zero delay streams as fast as the consumer reads.
func NewDemoEnhancer(delay time.Duration, logger domain.Logger) *DemoEnhancer {
	return &DemoEnhancer{delay: delay, logger: logger}
}

func (e *DemoEnhancer) Name() string {
	return "demo"
}

func (e *DemoEnhancer) EnhanceStream(ctx context.Context, req domain.EnhanceRequest) (<-chan domain.StreamChunk, error) {
	out := make(chan domain.StreamChunk)
	go func() {
		defer close(out)
		rest := demoResponse
		for len(rest) > 0 {
			n := demoChunkSize
			if n > len(rest) {
				n = len(rest)
			}
			// Avoid splitting a section marker across chunks so stage
			// detection on the accumulated text stays deterministic.
			if idx := strings.LastIndex(rest[:n], "["); idx > 0 && !strings.Contains(rest[idx:n], "]") {
				n = idx
			}
			chunk := rest[:n]
			rest = rest[n:]

			select {
			case out <- domain.StreamChunk{Text: chunk}:
			case <-ctx.Done():
				return
			}

			if e.delay > 0 {
				select {
				case <-time.After(e.delay):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
