// Package local provides an in-process tool executor backed by registered
// handler functions. It is the executor used by tests and examples, and by
// hosts whose tools live in the same process as the orchestrator.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jonwraymond/toolstream/dispatch"
)

// HandlerFunc is the function signature for local tool handlers. Non-string
// results are JSON-encoded before injection.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// Executor implements dispatch.Executor over a handler registry.
type Executor struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// New creates an empty local executor.
func New() *Executor {
	return &Executor{handlers: make(map[string]HandlerFunc)}
}

// Register adds or replaces the handler for a tool name.
func (e *Executor) Register(name string, h HandlerFunc) {
	if name == "" || h == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[name] = h
}

// Execute runs the registered handler for tool. A missing handler is a
// KEY-category failure; the schema catalog and the handler registry are
// configured separately, so they can drift.
func (e *Executor) Execute(ctx context.Context, tool string, args map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.mu.RLock()
	h, ok := e.handlers[tool]
	e.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: no handler registered for tool %q", dispatch.ErrMissingKey, tool)
	}

	result, err := h(ctx, args)
	if err != nil {
		return "", err
	}
	return stringify(result)
}

func stringify(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: result not serializable: %v", dispatch.ErrWrongType, err)
	}
	return string(data), nil
}
