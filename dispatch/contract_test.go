package dispatch

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

type ctxMarkerKey struct{}

// markerExecutor records the context value it was invoked with.
type markerExecutor struct {
	saw any
	err error
}

func (m *markerExecutor) Execute(ctx context.Context, _ string, _ map[string]any) (string, error) {
	m.saw = ctx.Value(ctxMarkerKey{})
	return "", m.err
}

func TestExecutorContract_ContextPassthrough(t *testing.T) {
	var _ Executor = (*markerExecutor)(nil)

	exec := &markerExecutor{}
	d := NewDispatcher(exec, nil)

	ctx := context.WithValue(context.Background(), ctxMarkerKey{}, "marker")
	d.Dispatch(ctx, "add", nil)

	if exec.saw != "marker" {
		t.Errorf("executor saw context value %v, want the caller's context", exec.saw)
	}
}

func TestExecutorContract_FailureIsData(t *testing.T) {
	exec := &markerExecutor{err: fmt.Errorf("socket closed: %w", ErrConnection)}
	d := NewDispatcher(exec, nil)

	outcome, record := d.Dispatch(context.Background(), "add", nil)

	if outcome.Success {
		t.Error("Outcome.Success = true for a failed execution")
	}
	if outcome.Category != CategoryConnection {
		t.Errorf("Category = %s, want %s", outcome.Category, CategoryConnection)
	}
	if record.Error != string(CategoryConnection) {
		t.Errorf("record.Error = %q, want %s", record.Error, CategoryConnection)
	}
	// The diagnostic is injectable as-is.
	if !strings.Contains(outcome.Block(), "<mcp_tool_result>") {
		t.Error("diagnostic not wrapped as a result block")
	}
}
