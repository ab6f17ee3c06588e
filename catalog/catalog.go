// Package catalog indexes the tool schemas a conversation may call and
// validates parsed tool-call requests against them.
//
// Schemas are [model.Tool] values: MCP tool declarations whose InputSchema
// is a JSON-schema-like object. The catalog is built once at orchestrator
// construction and read-only afterwards; it is never refreshed mid-turn.
//
// Contract:
// - Concurrency: Catalog is safe for concurrent readers once populated.
// - Errors: validation never panics; it returns diagnostics whose text is
//   safe to inject into the model's context verbatim.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jonwraymond/toolfoundation/model"
)

// ErrToolExists is returned when registering a duplicate tool name.
var ErrToolExists = errors.New("tool already registered")

// Catalog is a name-indexed set of tool schemas.
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]model.Tool
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{tools: make(map[string]model.Tool)}
}

// Register adds a tool schema. The tool name must be non-empty and unique
// within the catalog.
func (c *Catalog) Register(tool model.Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolExists, tool.Name)
	}
	c.tools[tool.Name] = tool
	return nil
}

// Get retrieves a schema by tool name.
func (c *Catalog) Get(name string) (model.Tool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tools[name]
	return t, ok
}

// Len returns the number of registered tools.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}

// Names returns the registered tool names sorted for deterministic output.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.tools))
	for name := range c.tools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Tools returns the registered schemas ordered by name.
func (c *Catalog) Tools() []model.Tool {
	names := c.Names()
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Tool, 0, len(names))
	for _, name := range names {
		out = append(out, c.tools[name])
	}
	return out
}
