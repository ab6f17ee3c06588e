package toolstream

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/toolstream/catalog"
	"github.com/jonwraymond/toolstream/conversation"
	"github.com/jonwraymond/toolstream/dispatch"
	"github.com/jonwraymond/toolstream/trace"
)

// DefaultMaxToolCalls bounds how many tool calls one turn may chain before
// the engine gives up and closes the turn.
const DefaultMaxToolCalls = 12

// Config controls interception, dispatch, and context behavior for an
// Engine.
type Config struct {
	// Model produces token streams.
	// Required.
	Model Model

	// Executor runs intercepted tool calls.
	// Required.
	Executor dispatch.Executor

	// Catalog holds the tool schemas calls are validated against and is
	// rendered into the bootstrap prompt.
	// Required.
	Catalog *catalog.Catalog

	// TokenCounter measures conversation size for trimming.
	// Optional; a character-based estimate is used when nil.
	TokenCounter conversation.TokenCounter

	// MaxContextTokens triggers oldest-first trimming after each tool
	// exchange when the conversation exceeds it. Zero disables trimming.
	MaxContextTokens int

	// MaxToolCalls limits tool calls per turn.
	// Default: DefaultMaxToolCalls.
	MaxToolCalls int

	// Logger is an optional logger for observability.
	Logger Logger

	// Trace receives structured events and the per-turn complete trace.
	// Optional; nil records nothing.
	Trace trace.Sink
}

// Validate checks that all required fields are set.
// Returns ErrConfiguration if any required field is missing.
func (c *Config) Validate() error {
	var missing []string

	if c.Model == nil {
		missing = append(missing, "Model")
	}
	if c.Executor == nil {
		missing = append(missing, "Executor")
	}
	if c.Catalog == nil {
		missing = append(missing, "Catalog")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s",
			ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// applyDefaults sets default values for optional fields.
func (c *Config) applyDefaults() {
	if c.MaxToolCalls == 0 {
		c.MaxToolCalls = DefaultMaxToolCalls
	}
}

// Option is a functional option for configuring an Engine.
type Option func(*Config)

// WithModel sets the token stream source.
func WithModel(m Model) Option {
	return func(c *Config) {
		c.Model = m
	}
}

// WithExecutor sets the tool executor.
func WithExecutor(e dispatch.Executor) Option {
	return func(c *Config) {
		c.Executor = e
	}
}

// WithCatalog sets the tool catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *Config) {
		c.Catalog = cat
	}
}

// WithTokenCounter sets a custom token counter for trimming.
func WithTokenCounter(count conversation.TokenCounter) Option {
	return func(c *Config) {
		c.TokenCounter = count
	}
}

// WithMaxContextTokens enables context trimming above the given budget.
func WithMaxContextTokens(n int) Option {
	return func(c *Config) {
		c.MaxContextTokens = n
	}
}

// WithMaxToolCalls sets the per-turn tool call limit.
func WithMaxToolCalls(n int) Option {
	return func(c *Config) {
		c.MaxToolCalls = n
	}
}

// WithLogger sets an optional logger.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithTrace sets the trace sink.
func WithTrace(s trace.Sink) Option {
	return func(c *Config) {
		c.Trace = s
	}
}
