package toolstream

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/jonwraymond/toolstream/catalog"
	"github.com/jonwraymond/toolstream/conversation"
	"github.com/jonwraymond/toolstream/dispatch"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Interface conformance for the test doubles.
var (
	_ Model             = (*scriptModel)(nil)
	_ dispatch.Executor = (*stubExecutor)(nil)
	_ Logger            = (*captureLogger)(nil)
)

// Scripted pass fragments shared across tests.
const (
	callAddScript = "<Assistant_Thought>I should add the numbers.</Assistant_Thought>\n" +
		"<mcp_tool_call>\n{\"tool_name\": \"add\", \"arguments\": {\"a\": 2, \"b\": 2}}\n</mcp_tool_call>"
	callSearchScript = "<mcp_tool_call>\n{\"tool_name\": \"search\", \"arguments\": {\"q\": \"go\"}}\n</mcp_tool_call>"
	finalScript      = "The answer is 4."
)

// scriptModel replays one scripted response per generation pass, delivered
// in small chunks so interception happens mid-stream.
type scriptModel struct {
	mu      sync.Mutex
	passes  []string
	calls   int
	prompts [][]conversation.Message
}

func (m *scriptModel) GenerateTokens(ctx context.Context, messages []conversation.Message) (<-chan Chunk, error) {
	m.mu.Lock()
	if m.calls >= len(m.passes) {
		m.mu.Unlock()
		return nil, fmt.Errorf("no script for pass %d", m.calls)
	}
	script := m.passes[m.calls]
	m.calls++
	m.prompts = append(m.prompts, messages)
	m.mu.Unlock()

	ch := make(chan Chunk)
	go func() {
		defer close(ch)
		for i := 0; i < len(script); i += 5 {
			end := i + 5
			if end > len(script) {
				end = len(script)
			}
			select {
			case ch <- Chunk{Text: script[i:end]}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func (m *scriptModel) passCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *scriptModel) prompt(i int) []conversation.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prompts[i]
}

// stubExecutor returns canned results per tool and records every call.
type stubExecutor struct {
	mu      sync.Mutex
	results map[string]string
	errs    map[string]error
	tools   []string
	args    []map[string]any
}

func (s *stubExecutor) Execute(_ context.Context, tool string, args map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools = append(s.tools, tool)
	s.args = append(s.args, args)
	if err := s.errs[tool]; err != nil {
		return "", err
	}
	return s.results[tool], nil
}

func (s *stubExecutor) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.tools))
	copy(out, s.tools)
	return out
}

// captureLogger collects Logf output for assertions.
type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) Logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *captureLogger) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	tools := []model.Tool{
		{Tool: mcp.Tool{
			Name:        "add",
			Description: "Adds two numbers",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"a": map[string]any{"type": "number"},
					"b": map[string]any{"type": "number"},
				},
				"required": []any{"a", "b"},
			},
		}},
		{Tool: mcp.Tool{
			Name:        "search",
			Description: "Searches the web",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"q": map[string]any{"type": "string"},
				},
			},
		}},
	}
	for _, tool := range tools {
		if err := c.Register(tool); err != nil {
			t.Fatalf("Register(%s) error = %v", tool.Name, err)
		}
	}
	return c
}

func newTestEngine(t *testing.T, m Model, exec dispatch.Executor, opts ...Option) *Engine {
	t.Helper()
	base := []Option{WithModel(m), WithExecutor(exec), WithCatalog(testCatalog(t))}
	e, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}
