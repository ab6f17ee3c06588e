package toolstream

import (
	"context"

	"github.com/jonwraymond/toolstream/conversation"
)

// Chunk is one increment of model output. A non-nil Err terminates the
// stream; Text is empty in that case.
type Chunk struct {
	Text string
	Err  error
}

// Model produces a token stream for the given conversation. The engine
// starts one generation pass per call and may abandon the stream mid-flight
// when it intercepts a tool call.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: senders must select on ctx.Done() for every send; the engine
//     cancels ctx to abandon a pass and does not drain the channel.
//   - Errors: a mid-stream failure is delivered as a Chunk with Err set,
//     followed by closing the channel.
//   - Ownership: messages are read-only; the channel is closed by the
//     implementation when the stream ends.
type Model interface {
	// GenerateTokens begins a generation pass over the messages and returns
	// the channel the tokens arrive on.
	GenerateTokens(ctx context.Context, messages []conversation.Message) (<-chan Chunk, error)
}
