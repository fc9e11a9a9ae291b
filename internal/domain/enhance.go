package domain

import "context"

// EnhanceRequest is a single prompt-polishing request. Mode is a free-form
// optimization label ("Reasoning", "Code Generation", ...) interpolated into
// the system instruction; it is validated as non-empty only.
type EnhanceRequest struct {
	Prompt string `json:"prompt"`
	Mode   string `json:"mode"`
}

// StreamChunk is one unit of model output. A chunk carries either text or a
// terminal error; after an error chunk the channel is closed.
type StreamChunk struct {
	Text string
	Err  error
}

// Enhancer produces the polished-prompt stream for a request. EnhanceStream
// returns an error immediately for problems detected before the upstream
// call is issued (missing credentials, bad request); otherwise it returns a
// channel on which a producer goroutine delivers chunks in arrival order and
// which is closed when the upstream stream ends. The producer honors ctx
// cancellation between chunks.
type Enhancer interface {
	Name() string
	EnhanceStream(ctx context.Context, req EnhanceRequest) (<-chan StreamChunk, error)
}
