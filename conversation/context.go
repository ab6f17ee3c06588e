package conversation

import (
	"fmt"
	"strings"
)

// Context is the ordered message buffer for one conversation. Once the
// bootstrap message is set it stays at position 0 for the lifetime of the
// conversation; trimming never evicts it.
type Context struct {
	messages []Message
}

// NewContext returns an empty conversation context.
func NewContext() *Context {
	return &Context{}
}

// Empty reports whether the context has no messages, i.e. the first turn has
// not started yet.
func (c *Context) Empty() bool {
	return len(c.messages) == 0
}

// Len returns the number of messages.
func (c *Context) Len() int {
	return len(c.messages)
}

// Bootstrap initializes the context with the combined system message built
// for the first turn. It is a no-op if the context is already populated.
func (c *Context) Bootstrap(content string) {
	if len(c.messages) > 0 {
		return
	}
	c.messages = append(c.messages, Message{Role: RoleSystem, Content: content})
}

// AppendUser appends a user message for a subsequent turn.
func (c *Context) AppendUser(input string) {
	c.messages = append(c.messages, Message{Role: RoleUser, Content: input})
}

// AppendAssistant appends the assistant's finalized output for a turn.
func (c *Context) AppendAssistant(content string) {
	c.messages = append(c.messages, Message{Role: RoleAssistant, Content: content})
}

// SpliceToolExchange appends exactly two messages: the assistant output up to
// and including the tool-call block, then the injected result block. This
// ordering gives the resumed generation its full causal history.
func (c *Context) SpliceToolExchange(assistantSoFar, resultBlock string) {
	c.messages = append(c.messages,
		Message{Role: RoleAssistant, Content: assistantSoFar},
		Message{Role: RoleToolResult, Content: resultBlock},
	)
}

// Messages returns a copy of the current message list.
func (c *Context) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Trim drops the oldest non-bootstrap message (position 1) until count
// reports the context within maxTokens or only two messages remain. The
// bootstrap message at position 0 is never evicted. A nil count falls back
// to EstimateTokens. Returns the number of messages dropped.
func (c *Context) Trim(count TokenCounter, maxTokens int) int {
	if count == nil {
		count = EstimateTokens
	}
	dropped := 0
	for count(c.messages) > maxTokens && len(c.messages) > 2 {
		c.messages = append(c.messages[:1], c.messages[2:]...)
		dropped++
	}
	return dropped
}

// replace swaps the message list wholesale. Used by snapshot restore after
// validation has passed.
func (c *Context) replace(messages []Message) {
	c.messages = messages
}

// BuildBootstrap combines the usage instructions, the rendered
// available-tools block, and the first user input into the single system
// message that opens a conversation.
func BuildBootstrap(userInput, availableToolsBlock string) string {
	var b strings.Builder
	b.WriteString(bootstrapInstructions)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "User: %s\n\n", userInput)
	b.WriteString(availableToolsBlock)
	b.WriteString("\n")
	return b.String()
}

// bootstrapInstructions tells the model how to drive the directive-block
// protocol, including one correct and two incorrect examples. Emitted once
// per conversation, never re-sent on later turns.
const bootstrapInstructions = `INSTRUCTIONS: You are an AI assistant that can use tools to help solve problems. ` +
	`After using tools to gather information, you should provide a complete, natural language response to the user's question. ` +
	`If you want to use a tool, you MUST use ONLY the tool names listed in the <mcp_available_tools> block below. ` +
	`Always emit a <mcp_tool_call>...</mcp_tool_call> block with valid, complete JSON inside. ` +
	`Before calling a tool, explain your thinking in an <Assistant_Thought>...</Assistant_Thought> block. ` +
	`Do NOT invent tool names. Do NOT use any tool not listed. ` +
	`Do NOT emit malformed or incomplete JSON. ` +
	`After using a tool and receiving its result, continue your reasoning to provide a complete answer to the user's question. ` +
	"Remember to answer all parts of the user's question completely.\n" +
	"\nCORRECT EXAMPLE:\n" +
	"<Assistant_Thought>I need to add two numbers. I'll use the add tool.</Assistant_Thought>\n" +
	"<mcp_tool_call>\n{\n  \"tool_name\": \"add\", \"arguments\": {\"a\": 3, \"b\": 3}\n}\n</mcp_tool_call>\n" +
	"\nINCORRECT EXAMPLES (do NOT do this):\n" +
	"<mcp_tool_call>\n{\n  \"tool_name\": \"calculator\", \"arguments\": {\"operation\": \"add\", \"numbers\": [3, 4]}\n}\n</mcp_tool_call>\n" +
	"<mcp_tool_call>\n{\n  \"tool_name\": \"add\", \"arguments\": {\"a\": 3, \"b\": 4}\n  // missing closing brace\n</mcp_tool_call>\n" +
	"\nAfter using a tool and getting its result, continue to answer the user's original question completely."
