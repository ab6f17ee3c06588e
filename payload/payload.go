// Package payload turns the raw text captured inside a tool-call block into
// a structured request, tolerating the malformed JSON that models emit.
//
// Parsing is an ordered, pure pipeline that stops at the first success:
// direct parse, brace-substring extraction, then a fixed sequence of syntax
// repairs. The method that produced the request is reported so callers and
// traces can tell a clean payload from a repaired one.
//
// Contract:
// - Concurrency: all functions are pure and safe for concurrent use.
// - Errors: returned errors carry diagnostic text that is safe to inject
//   back into the model's context verbatim; Parse never panics.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Method identifies which stage of the pipeline produced a request.
type Method string

const (
	// MethodDirect means the raw text parsed as-is.
	MethodDirect Method = "direct"

	// MethodExtracted means the first-'{' to last-'}' substring parsed.
	MethodExtracted Method = "extracted"

	// MethodRepaired means the substring parsed only after syntax repairs.
	MethodRepaired Method = "repaired"
)

// Request is a parsed tool-call payload. It lives for one interception
// cycle: produced per detected block and consumed immediately.
type Request struct {
	ToolName  string
	Arguments map[string]any
}

// Diagnostic errors returned by Parse. Their text is the contract: it is
// injected into the conversation so the model can self-correct.
var (
	ErrMalformed   = errors.New("ERROR: Invalid tool call (malformed JSON).")
	ErrNotObject   = errors.New("ERROR: Invalid tool call payload (not an object).")
	ErrMissingName = errors.New("ERROR: Invalid tool call (missing or malformed 'tool_name').")
)

var (
	quoteFolder = strings.NewReplacer(
		"“", `"`, "”", `"`, // curly double quotes
		"‘", "'", "’", "'", // curly single quotes
	)
	singleQuote   = strings.NewReplacer("'", `"`)
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
	bareKey       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_-]*)(\s*:)`)
)

// Parse extracts a tool-call request from the raw inner text of a tool-call
// block. The text may contain explanatory prose around the JSON object.
// On failure the returned error names the reason and Method is empty.
func Parse(raw string) (Request, Method, error) {
	text := norm.NFC.String(raw)

	if payload, ok := decodeObject(text); ok {
		return finish(payload, MethodDirect)
	}

	sub, ok := braceSubstring(text)
	if !ok {
		return Request{}, "", ErrMalformed
	}
	if payload, ok := decodeObject(sub); ok {
		return finish(payload, MethodExtracted)
	}

	if payload, ok := decodeObject(repair(sub)); ok {
		return finish(payload, MethodRepaired)
	}
	return Request{}, "", ErrMalformed
}

// decodeObject parses text as JSON and reports whether it yielded any value.
// Non-object payloads still parse here; finish rejects them so that the
// "not an object" diagnostic is distinguishable from a syntax failure.
func decodeObject(text string) (any, bool) {
	var payload any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// braceSubstring returns the span from the first '{' through the last '}'.
func braceSubstring(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// repair applies the fixed syntax-repair sequence: fold typographic quotes,
// rewrite single quotes as double quotes, drop a trailing separator before a
// closing brace or bracket, and quote bare object keys.
func repair(text string) string {
	text = quoteFolder.Replace(text)
	text = singleQuote.Replace(text)
	text = trailingComma.ReplaceAllString(text, "$1")
	text = bareKey.ReplaceAllString(text, `$1"$2"$3`)
	return text
}

func finish(payload any, method Method) (Request, Method, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return Request{}, "", ErrNotObject
	}

	name, ok := obj["tool_name"].(string)
	if !ok || name == "" {
		return Request{}, "", ErrMissingName
	}

	rawArgs, present := obj["arguments"]
	if !present || rawArgs == nil {
		return Request{ToolName: name, Arguments: map[string]any{}}, method, nil
	}
	args, ok := rawArgs.(map[string]any)
	if !ok {
		return Request{ToolName: name}, "",
			fmt.Errorf("ERROR: Arguments for tool '%s' must be an object.", name)
	}
	return Request{ToolName: name, Arguments: args}, method, nil
}
