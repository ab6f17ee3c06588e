// Package trace defines the structured records the orchestration loop emits
// for offline analysis or training: incremental per-turn events and one
// complete trace per turn carrying the full tagged transcript.
//
// Contract:
// - Concurrency: sinks must be safe for concurrent use.
// - Sinks are best-effort and must not block the orchestration loop
//   indefinitely; a nil sink simply records nothing.
package trace

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one incremental structured record: a prompt sent, a thought
// observed, a raw model response, or a tool result injected.
type Event struct {
	Role     string         `json:"role"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Complete is the one-per-turn record of the whole interaction, with every
// directive tag preserved. Reward stays null until a downstream trainer
// fills it in.
type Complete struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Reward           *float64  `json:"reward"`
	Conversation     []Event   `json:"conversation"`
	FinalCleanOutput string    `json:"final_clean_output"`
	Events           []Event   `json:"events,omitempty"`
}

// NewComplete stamps a complete trace with a fresh ID and UTC timestamp.
func NewComplete(conversation []Event, finalCleanOutput string) Complete {
	return Complete{
		ID:               uuid.NewString(),
		Timestamp:        time.Now().UTC(),
		Conversation:     conversation,
		FinalCleanOutput: finalCleanOutput,
	}
}

// Sink receives trace records.
type Sink interface {
	// LogEvent records one incremental event.
	LogEvent(e Event)

	// LogComplete records the turn's complete trace.
	LogComplete(c Complete)
}

// Memory is an in-process sink that accumulates records for inspection.
type Memory struct {
	mu        sync.Mutex
	events    []Event
	completes []Complete
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) LogEvent(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *Memory) LogComplete(c Complete) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Fold the pending events into the trace the way the file sink does,
	// then start fresh for the next turn.
	c.Events = append(c.Events, m.events...)
	m.events = nil
	m.completes = append(m.completes, c)
}

// Events returns a copy of the events not yet folded into a complete trace.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Completes returns a copy of the recorded complete traces.
func (m *Memory) Completes() []Complete {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Complete, len(m.completes))
	copy(out, m.completes)
	return out
}

// JSONLWriter streams complete traces to a writer, one JSON document per
// line. Incremental events are buffered and attached to the next complete
// trace rather than written individually.
type JSONLWriter struct {
	mu      sync.Mutex
	enc     *json.Encoder
	pending []Event
}

// NewJSONLWriter creates a sink writing to w. The caller owns w's lifetime.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{enc: json.NewEncoder(w)}
}

func (j *JSONLWriter) LogEvent(e Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending = append(j.pending, e)
}

func (j *JSONLWriter) LogComplete(c Complete) {
	j.mu.Lock()
	defer j.mu.Unlock()
	c.Events = append(c.Events, j.pending...)
	j.pending = nil
	// Best-effort: a failed write must not take down the turn.
	_ = j.enc.Encode(c)
}
