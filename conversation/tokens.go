package conversation

// TokenCounter reports the token cost of a message list. Exact counting is
// an injected capability: callers that have a real tokenizer wrap it in this
// signature, everyone else gets EstimateTokens.
type TokenCounter func(messages []Message) int

// messageOverheadTokens approximates the per-message framing cost that chat
// APIs charge on top of the content itself.
const messageOverheadTokens = 4

// EstimateTokens is the fallback heuristic counter: per-message overhead
// plus one token per four characters of content.
func EstimateTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += messageOverheadTokens + len(m.Content)/4
	}
	return total
}
