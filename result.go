package toolstream

import "github.com/jonwraymond/toolstream/conversation"

// DetailedResult is the full outcome of one turn: the cleaned final text
// plus the audit trail of every tool call the turn chained through.
type DetailedResult struct {
	// Output is the final assistant text with all directive blocks removed.
	Output string

	// Records lists the turn's tool calls in dispatch order, including
	// failed attempts.
	Records []conversation.ToolCallRecord
}
