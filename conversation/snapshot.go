package conversation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidSnapshot indicates a snapshot that failed validation. Restoring
// is all-or-nothing: live state is untouched when this is returned.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is a point-in-time, fully-owned copy of a conversation: the
// message list plus the tool-call records of the last turn. It is safe to
// serialize and to restore on a different orchestrator instance.
type Snapshot struct {
	Messages  []Message        `json:"messages"`
	ToolCalls []ToolCallRecord `json:"tool_call_records"`
}

// TakeSnapshot deep-copies the context and records into a Snapshot.
func TakeSnapshot(c *Context, records []ToolCallRecord) Snapshot {
	s := Snapshot{
		Messages:  make([]Message, len(c.messages)),
		ToolCalls: make([]ToolCallRecord, 0, len(records)),
	}
	copy(s.Messages, c.messages)
	for _, r := range records {
		s.ToolCalls = append(s.ToolCalls, cloneRecord(r))
	}
	return s
}

// Clone returns a deep, independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Messages:  make([]Message, len(s.Messages)),
		ToolCalls: make([]ToolCallRecord, 0, len(s.ToolCalls)),
	}
	copy(out.Messages, s.Messages)
	for _, r := range s.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, cloneRecord(r))
	}
	return out
}

// Validate type-checks every field of the snapshot. It must pass before any
// live state is replaced.
func (s Snapshot) Validate() error {
	for i, m := range s.Messages {
		if !m.Role.known() {
			return fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidSnapshot, i, m.Role)
		}
	}
	if len(s.Messages) > 0 && s.Messages[0].Role != RoleSystem {
		return fmt.Errorf("%w: first message must be the system bootstrap, got role %q",
			ErrInvalidSnapshot, s.Messages[0].Role)
	}
	for i, r := range s.ToolCalls {
		if r.ToolName == "" {
			return fmt.Errorf("%w: tool call record %d missing tool name", ErrInvalidSnapshot, i)
		}
	}
	return nil
}

// Restore replaces the context's message list with the snapshot's, after
// validation. The stored copy is deep so later snapshot mutation cannot
// reach live state.
func (s Snapshot) Restore(c *Context) error {
	if err := s.Validate(); err != nil {
		return err
	}
	clone := s.Clone()
	c.replace(clone.Messages)
	return nil
}

// ParseSnapshot decodes a serialized snapshot and validates it. Unknown
// fields are rejected so a structurally wrong document fails loudly instead
// of half-loading.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func cloneRecord(r ToolCallRecord) ToolCallRecord {
	out := r
	out.Arguments = cloneArgs(r.Arguments)
	return out
}

func cloneArgs(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneArgs(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
