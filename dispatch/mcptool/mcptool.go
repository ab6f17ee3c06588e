// Package mcptool provides a tool executor backed by an MCP server session.
// Tool calls are forwarded over the Model Context Protocol and text content
// blocks from the response are flattened into the injected result string.
package mcptool

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/toolstream/dispatch"
)

// Executor implements dispatch.Executor over an MCP client session.
type Executor struct {
	session *mcp.ClientSession
}

// NewExecutor wraps an already-connected session.
func NewExecutor(session *mcp.ClientSession) *Executor {
	return &Executor{session: session}
}

// Connect launches an MCP server subprocess over stdio and returns an
// executor bound to the resulting session.
func Connect(ctx context.Context, command string, args ...string) (*Executor, error) {
	client := mcp.NewClient(&mcp.Implementation{Name: "toolstream", Version: "0.1.0"}, nil)
	cmd := exec.CommandContext(ctx, command, args...)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: connect to MCP server: %v", dispatch.ErrConnection, err)
	}
	return &Executor{session: session}, nil
}

// Execute forwards one tool call to the server.
func (e *Executor) Execute(ctx context.Context, tool string, args map[string]any) (string, error) {
	res, err := e.session.CallTool(ctx, &mcp.CallToolParams{Name: tool, Arguments: args})
	if err != nil {
		return "", fmt.Errorf("call tool %q: %w", tool, err)
	}
	text := flattenText(res)
	if res.IsError {
		if text == "" {
			text = "tool reported an error with no content"
		}
		return "", errors.New(text)
	}
	return text, nil
}

// Tools lists the server's tool declarations, for seeding a catalog.
func (e *Executor) Tools(ctx context.Context) ([]model.Tool, error) {
	var out []model.Tool
	for tool, err := range e.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("list tools: %w", err)
		}
		out = append(out, model.Tool{Tool: *tool})
	}
	return out, nil
}

// Close shuts down the underlying session.
func (e *Executor) Close() error {
	if e.session == nil {
		return nil
	}
	return e.session.Close()
}

func flattenText(res *mcp.CallToolResult) string {
	var parts []string
	for _, content := range res.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
