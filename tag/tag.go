// Package tag implements scanning and cleaning of directive blocks embedded
// in streamed model output.
//
// A directive block is a delimited span of assistant text that the host
// interprets as structured data rather than prose. Two kinds trigger
// behavior: tool-call blocks (interception) and thought blocks (trace only).
// Result and available-tools blocks are emitted by the host, never scanned
// for, but they participate in output cleaning.
//
// Contract:
// - Concurrency: all functions are pure and safe for concurrent use.
// - Scanning is restart-safe: callers re-scan the whole accumulated buffer
//   on every appended token; a block is only reported once its closing
//   delimiter has been observed.
package tag

import (
	"regexp"
	"strings"
)

// Delimiters of the directive-block wire format. These exact strings are the
// contract the model is instructed to follow.
const (
	ToolCallOpen  = "<mcp_tool_call>"
	ToolCallClose = "</mcp_tool_call>"

	ToolResultOpen  = "<mcp_tool_result>"
	ToolResultClose = "</mcp_tool_result>"

	ThoughtOpen  = "<Assistant_Thought>"
	ThoughtClose = "</Assistant_Thought>"

	AvailableToolsOpen  = "<mcp_available_tools>"
	AvailableToolsClose = "</mcp_available_tools>"
)

// FindToolCall reports the inner content of the first complete tool-call
// block in buf. It returns ok=false when no opening delimiter is present or
// the closing delimiter has not arrived yet.
func FindToolCall(buf string) (content string, ok bool) {
	return findBlock(buf, ToolCallOpen, ToolCallClose)
}

// FindThought reports the inner content of the first complete thought block
// in buf, with surrounding whitespace trimmed.
func FindThought(buf string) (content string, ok bool) {
	inner, ok := findBlock(buf, ThoughtOpen, ThoughtClose)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(inner), true
}

func findBlock(buf, open, close string) (string, bool) {
	start := strings.Index(buf, open)
	if start < 0 {
		return "", false
	}
	rest := buf[start+len(open):]
	end := strings.Index(rest, close)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// WrapToolResult formats a tool result (or a diagnostic standing in for one)
// as a result block for injection back into the conversation.
func WrapToolResult(content string) string {
	return ToolResultOpen + "\n" + content + "\n" + ToolResultClose
}

var (
	cleanPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)` + ToolCallOpen + `.*?` + ToolCallClose),
		regexp.MustCompile(`(?s)` + ToolResultOpen + `.*?` + ToolResultClose),
		regexp.MustCompile(`(?s)` + AvailableToolsOpen + `.*?` + AvailableToolsClose),
		regexp.MustCompile(`(?s)` + ThoughtOpen + `.*?` + ThoughtClose),
	}
	newlineCollapse = regexp.MustCompile(`\n{3,}`)
)

// Clean strips every directive block from text and normalizes whitespace for
// user-facing display. Cleaning an already-clean string is a no-op beyond
// whitespace normalization.
func Clean(text string) string {
	for _, pat := range cleanPatterns {
		text = pat.ReplaceAllString(text, "")
	}
	return newlineCollapse.ReplaceAllString(strings.TrimSpace(text), "\n\n")
}
