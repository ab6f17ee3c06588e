// Package dispatch invokes the external tool executor for validated
// tool-call requests and turns failures into diagnostics the model can act
// on.
//
// A failure here is data, not a crash: the executor's error is classified
// into a small fixed taxonomy and embedded in the result block, and the
// attempt is always recorded, success or not.
//
// Contract:
// - Concurrency: a Dispatcher is safe for concurrent use if its Executor is.
// - Context: Dispatch passes ctx through to the executor unmodified.
// - Errors: Dispatch never returns an error; executor failures surface in
//   the Outcome.
package dispatch

import (
	"context"
	"fmt"

	"github.com/jonwraymond/toolstream/conversation"
	"github.com/jonwraymond/toolstream/tag"
)

// Executor is the external tool-execution interface. It is called exactly
// once per detected, validated tool call.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines.
// - Errors: wrap the package sentinels (ErrConnection, ErrTimeout, ...)
//   where the failure mode is known so classification stays accurate.
type Executor interface {
	Execute(ctx context.Context, tool string, args map[string]any) (string, error)
}

// Logger is an optional observability hook.
//
// Contract:
// - Logging must be best-effort; Logf should not panic.
type Logger interface {
	Logf(format string, args ...any)
}

// Outcome is the ephemeral result of one dispatch: consumed immediately by
// the orchestration loop to splice the conversation.
type Outcome struct {
	// Success is false when the executor returned an error.
	Success bool

	// Content is the tool's result on success, or the diagnostic text on
	// failure. Either way it is safe to inject into the conversation.
	Content string

	// Category labels the failure; empty on success.
	Category Category
}

// Block renders the outcome as a tool-result block for injection.
func (o Outcome) Block() string {
	return tag.WrapToolResult(o.Content)
}

// Dispatcher calls an Executor and normalizes the result.
type Dispatcher struct {
	exec   Executor
	logger Logger
}

// NewDispatcher creates a Dispatcher around the given executor. logger may
// be nil.
func NewDispatcher(exec Executor, logger Logger) *Dispatcher {
	return &Dispatcher{exec: exec, logger: logger}
}

// Dispatch executes one validated tool call. The returned record captures
// the attempt for the turn's audit list whether or not the call succeeded.
func (d *Dispatcher) Dispatch(ctx context.Context, tool string, args map[string]any) (Outcome, conversation.ToolCallRecord) {
	if d.logger != nil {
		d.logger.Logf("dispatching tool %q args=%v", tool, args)
	}

	content, err := d.exec.Execute(ctx, tool, args)
	if err != nil {
		category := Classify(err)
		diagnostic := fmt.Sprintf("ERROR: Failed to execute tool '%s' (%s): %v", tool, category, err)
		if d.logger != nil {
			d.logger.Logf("tool %q failed (%s): %v", tool, category, err)
		}
		return Outcome{Content: diagnostic, Category: category},
			conversation.ToolCallRecord{ToolName: tool, Arguments: args, Result: diagnostic, Error: string(category)}
	}

	if d.logger != nil {
		d.logger.Logf("tool %q returned %d bytes", tool, len(content))
	}
	return Outcome{Success: true, Content: content},
		conversation.ToolCallRecord{ToolName: tool, Arguments: args, Result: content}
}
