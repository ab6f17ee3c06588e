// Package conversation owns the ordered message buffer presented to the
// model, the per-turn tool-call audit records, and point-in-time snapshots
// of both.
//
// Contract:
// - Concurrency: a Context is exclusively owned by one in-flight turn and is
//   not safe for concurrent use; distinct conversations use distinct
//   Contexts and share nothing.
// - Ownership: slices returned by accessor methods are caller-owned copies.
package conversation

import "fmt"

// Role identifies the author of a message.
type Role string

const (
	RoleSystem     Role = "system"
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleToolResult Role = "tool_result"
)

// known reports whether r is one of the defined roles.
func (r Role) known() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleToolResult:
		return true
	}
	return false
}

// Message is one entry in the conversation context.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ToolCallRecord captures one tool invocation made during a turn, success or
// failure. Records accumulate per turn and are cleared when the next turn
// starts.
type ToolCallRecord struct {
	// ToolName is the name the call was dispatched under.
	ToolName string `json:"tool_name"`

	// Arguments contains the validated arguments passed to the tool.
	Arguments map[string]any `json:"arguments,omitempty"`

	// Result is the textual result injected back into the conversation.
	// For failed calls it carries the diagnostic instead.
	Result string `json:"result"`

	// Error is the failure category label when the call failed, empty on
	// success.
	Error string `json:"error,omitempty"`
}

func (r ToolCallRecord) String() string {
	return fmt.Sprintf("%s(%v)", r.ToolName, r.Arguments)
}
