package toolstream

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jonwraymond/toolstream/conversation"
	"github.com/jonwraymond/toolstream/dispatch"
	"github.com/jonwraymond/toolstream/payload"
	"github.com/jonwraymond/toolstream/tag"
	"github.com/jonwraymond/toolstream/trace"
)

// Engine drives the interception loop: it streams model output, intercepts
// tool-call blocks as they complete, dispatches them, splices results back
// into the conversation, and resumes generation until a pass ends without a
// tool call.
//
// Contract:
// - Concurrency: safe for concurrent use; turns are serialized internally.
// - Context: ProcessTurn honors cancellation and returns ctx.Err() when
//   canceled mid-turn.
// - Errors: tool failures never abort a turn; they are injected as result
//   blocks. Only model/stream failures, cancellation, and the tool-call
//   limit surface as errors.
type Engine struct {
	mu         sync.Mutex
	cfg        Config
	dispatcher *dispatch.Dispatcher
	conv       *conversation.Context
	records    []conversation.ToolCallRecord
	events     []trace.Event
}

// New creates an Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &Engine{
		cfg:        cfg,
		dispatcher: dispatch.NewDispatcher(cfg.Executor, cfg.Logger),
		conv:       conversation.NewContext(),
	}, nil
}

// ProcessTurn runs one full user turn and returns the final assistant text
// with all directive blocks removed.
func (e *Engine) ProcessTurn(ctx context.Context, userInput string) (string, error) {
	res, err := e.ProcessTurnDetailed(ctx, userInput)
	return res.Output, err
}

// ProcessTurnDetailed runs one full user turn and returns the cleaned text
// together with the turn's tool-call records.
func (e *Engine) ProcessTurnDetailed(ctx context.Context, userInput string) (DetailedResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.records = nil

	if e.conv.Empty() {
		e.conv.Bootstrap(conversation.BuildBootstrap(userInput, e.cfg.Catalog.PromptBlock()))
	} else {
		e.conv.AppendUser(userInput)
	}
	e.logEvent("user", userInput, nil)
	// A turn inherits whatever the previous turns accumulated, so the budget
	// is enforced before the first pass, not only after tool exchanges.
	e.trimContext()

	calls := 0
	for {
		if err := ctx.Err(); err != nil {
			return DetailedResult{Records: e.copyRecords()}, err
		}

		text, raw, found, err := e.generate(ctx)
		if err != nil {
			return DetailedResult{Records: e.copyRecords()}, err
		}
		e.logEvent("assistant_raw", text, nil)

		if !found {
			final := tag.Clean(text)
			e.conv.AppendAssistant(final)
			e.finishTrace(text, final)
			return DetailedResult{Output: final, Records: e.copyRecords()}, nil
		}

		calls++
		if calls > e.cfg.MaxToolCalls {
			diag := fmt.Sprintf("ERROR: Tool call limit of %d reached for this turn.", e.cfg.MaxToolCalls)
			e.conv.SpliceToolExchange(text, tag.WrapToolResult(diag))
			final := tag.Clean(text)
			e.finishTrace("", final)
			return DetailedResult{Output: final, Records: e.copyRecords()},
				fmt.Errorf("%w: %d tool calls in one turn", ErrLimitExceeded, calls)
		}

		block, record := e.resolveCall(ctx, raw)
		e.records = append(e.records, record)
		e.logEvent("tool_result", block, map[string]any{"tool_name": record.ToolName})
		e.conv.SpliceToolExchange(text, block)
		e.trimContext()
	}
}

// trimContext enforces the token budget, evicting oldest-first while the
// bootstrap message stays pinned. A zero budget disables trimming.
func (e *Engine) trimContext() {
	if e.cfg.MaxContextTokens <= 0 {
		return
	}
	if dropped := e.conv.Trim(e.cfg.TokenCounter, e.cfg.MaxContextTokens); dropped > 0 {
		e.logf("toolstream: trimmed %d messages from context", dropped)
	}
}

// generate runs one streaming pass. It returns the accumulated text up to
// and including the tool-call close delimiter when a call was intercepted,
// or the full pass output when the stream ended without one.
func (e *Engine) generate(ctx context.Context) (text, raw string, found bool, err error) {
	passCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := e.cfg.Model.GenerateTokens(passCtx, e.conv.Messages())
	if err != nil {
		return "", "", false, err
	}

	var buf strings.Builder
	thoughtSeen := false
	for chunk := range stream {
		if chunk.Err != nil {
			return "", "", false, chunk.Err
		}
		buf.WriteString(chunk.Text)
		s := buf.String()

		if !thoughtSeen {
			if thought, ok := tag.FindThought(s); ok {
				thoughtSeen = true
				e.logEvent("assistant_thought", thought, nil)
			}
		}

		if inner, ok := tag.FindToolCall(s); ok {
			// Abandon the in-flight pass before dispatching; the model
			// resumes from the spliced history on the next pass.
			cancel()
			end := strings.Index(s, tag.ToolCallClose) + len(tag.ToolCallClose)
			return s[:end], inner, true, nil
		}
	}
	return buf.String(), "", false, nil
}

// resolveCall turns a raw payload into an injectable result block and its
// audit record. Parse, validation, and execution failures all produce
// diagnostic blocks rather than errors.
func (e *Engine) resolveCall(ctx context.Context, raw string) (string, conversation.ToolCallRecord) {
	req, method, err := payload.Parse(raw)
	if err != nil {
		e.logf("toolstream: payload rejected: %v", err)
		return tag.WrapToolResult(err.Error()), conversation.ToolCallRecord{
			ToolName: req.ToolName,
			Result:   err.Error(),
			Error:    string(dispatch.CategoryGeneral),
		}
	}
	if method != payload.MethodDirect {
		e.logf("toolstream: payload for %q accepted via %s parse", req.ToolName, method)
	}

	if _, err := e.cfg.Catalog.ValidateCall(req.ToolName, req.Arguments); err != nil {
		e.logf("toolstream: call rejected: %v", err)
		return tag.WrapToolResult(err.Error()), conversation.ToolCallRecord{
			ToolName:  req.ToolName,
			Arguments: req.Arguments,
			Result:    err.Error(),
			Error:     string(dispatch.CategoryValue),
		}
	}

	outcome, record := e.dispatcher.Dispatch(ctx, req.ToolName, req.Arguments)
	return outcome.Block(), record
}

// Snapshot captures the conversation and the latest turn's tool-call
// records as an independent deep copy.
func (e *Engine) Snapshot() conversation.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return conversation.TakeSnapshot(e.conv, e.records)
}

// Resume replaces the engine's state with the snapshot. Validation happens
// before any mutation, so a bad snapshot leaves the engine untouched.
func (e *Engine) Resume(s conversation.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := s.Restore(e.conv); err != nil {
		return err
	}
	e.records = s.Clone().ToolCalls
	return nil
}

// ResumeJSON restores from a serialized snapshot, rejecting documents that
// do not type-check against the snapshot shape.
func (e *Engine) ResumeJSON(data []byte) error {
	s, err := conversation.ParseSnapshot(data)
	if err != nil {
		return err
	}
	return e.Resume(s)
}

// History returns a copy of the conversation so far.
func (e *Engine) History() []conversation.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conv.Messages()
}

// LastToolCalls returns the records from the most recent turn.
func (e *Engine) LastToolCalls() []conversation.ToolCallRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyRecords()
}

func (e *Engine) copyRecords() []conversation.ToolCallRecord {
	out := make([]conversation.ToolCallRecord, len(e.records))
	copy(out, e.records)
	return out
}

// finishTrace emits the per-turn complete trace with the raw tagged
// conversation and the cleaned final output. The context holds the cleaned
// final answer, so rawFinal restores the tagged transcript for the last
// assistant message when non-empty.
func (e *Engine) finishTrace(rawFinal, final string) {
	if e.cfg.Trace == nil {
		return
	}
	msgs := e.conv.Messages()
	events := make([]trace.Event, len(msgs))
	for i, m := range msgs {
		events[i] = trace.Event{Role: string(m.Role), Content: m.Content}
	}
	if rawFinal != "" && len(events) > 0 {
		events[len(events)-1].Content = rawFinal
	}
	e.cfg.Trace.LogComplete(trace.NewComplete(events, final))
}

// Events returns a copy of every incremental event the engine has recorded,
// across all turns. The list fills whether or not a trace sink is configured.
func (e *Engine) Events() []trace.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]trace.Event, len(e.events))
	copy(out, e.events)
	return out
}

// logEvent is only called with e.mu held.
func (e *Engine) logEvent(role, content string, metadata map[string]any) {
	ev := trace.Event{Role: role, Content: content, Metadata: metadata}
	e.events = append(e.events, ev)
	if e.cfg.Trace != nil {
		e.cfg.Trace.LogEvent(ev)
	}
}

func (e *Engine) logf(format string, args ...any) {
	if e.cfg.Logger != nil {
		e.cfg.Logger.Logf(format, args...)
	}
}
