// Package toolstream runs tool-augmented model turns by intercepting
// directive blocks inside a live token stream.
//
// The engine watches the stream for <mcp_tool_call> blocks, repairs and
// validates their JSON payloads against a tool catalog, dispatches them to
// an executor, and splices each result back into the conversation as an
// <mcp_tool_result> block before resuming generation. The loop repeats
// until a pass completes without a tool call; callers receive the final
// text with every directive block stripped.
//
// # Overview
//
// The module splits the pipeline into small packages:
//
//   - tag scans token buffers for complete directive blocks and strips them
//     from final output
//   - payload repairs and parses tool-call JSON
//   - catalog registers tool schemas and validates calls against them
//   - dispatch runs validated calls and classifies failures
//   - conversation owns message history, trimming, and snapshots
//   - trace records structured events for offline analysis
//
// # Basic Usage
//
//	cat := catalog.New()
//	cat.Register(model.Tool{Tool: mcp.Tool{
//	    Name:        "add",
//	    Description: "Adds two numbers",
//	    InputSchema: map[string]any{
//	        "type":       "object",
//	        "properties": map[string]any{"a": map[string]any{"type": "number"}},
//	    },
//	}})
//
//	exec := local.New()
//	exec.Register("add", func(ctx context.Context, args map[string]any) (any, error) {
//	    return args["a"].(float64) + args["b"].(float64), nil
//	})
//
//	engine, err := toolstream.New(
//	    toolstream.WithModel(model),
//	    toolstream.WithExecutor(exec),
//	    toolstream.WithCatalog(cat),
//	)
//
//	answer, err := engine.ProcessTurn(ctx, "What is 2+2?")
//
// # Failure Injection
//
// Malformed payloads, unknown tools, schema violations, and execution
// failures never abort a turn. Each produces a diagnostic result block the
// model sees on its next pass, so it can correct itself. Only stream
// failures, context cancellation, and the per-turn call limit
// (ErrLimitExceeded) surface as errors from ProcessTurn.
//
// # Snapshots
//
// Engine.Snapshot captures the conversation as an independent deep copy;
// Engine.Resume and Engine.ResumeJSON restore it all-or-nothing, so a
// rejected snapshot leaves the engine untouched.
package toolstream
