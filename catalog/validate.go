package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonwraymond/toolfoundation/model"
)

// ValidateCall checks a parsed request against the registered schema for its
// tool. It returns the matched schema on success. Validation is purely
// local and deterministic; failures come back as an error whose text is a
// diagnostic for the model, with the available tool names enumerated when
// the tool itself is unknown.
func (c *Catalog) ValidateCall(name string, args map[string]any) (model.Tool, error) {
	tool, ok := c.Get(name)
	if !ok {
		return model.Tool{}, fmt.Errorf("ERROR: Tool '%s' not found. Available tools: %s",
			name, strings.Join(c.Names(), ", "))
	}

	props := properties(tool)
	if missing := missingArguments(tool, props, args); len(missing) > 0 {
		return model.Tool{}, fmt.Errorf("ERROR: Tool '%s' missing required arguments: [%s]",
			name, strings.Join(missing, ", "))
	}

	if mismatches := typeMismatches(props, args); len(mismatches) > 0 {
		return model.Tool{}, fmt.Errorf("ERROR: Tool '%s' argument type mismatch: %s",
			name, strings.Join(mismatches, "; "))
	}
	return tool, nil
}

// properties extracts the declared argument schemas from the tool's input
// schema. A missing or malformed properties object yields nil, which
// disables per-argument checks.
func properties(tool model.Tool) map[string]any {
	schema, ok := tool.InputSchema.(map[string]any)
	if !ok {
		return nil
	}
	props, _ := schema["properties"].(map[string]any)
	return props
}

// missingArguments returns the required argument names absent from args, in
// sorted order. The schema's "required" list governs when present; without
// one, every declared property is treated as required.
func missingArguments(tool model.Tool, props map[string]any, args map[string]any) []string {
	var required []string
	if schema, ok := tool.InputSchema.(map[string]any); ok {
		if list, ok := schema["required"].([]any); ok {
			for _, entry := range list {
				if s, ok := entry.(string); ok {
					required = append(required, s)
				}
			}
		} else {
			for key := range props {
				required = append(required, key)
			}
		}
	}

	var missing []string
	for _, key := range required {
		if _, present := args[key]; !present {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// typeMismatches reports, per argument with a declared type, the arguments
// whose values are incompatible, each as "'name': expected X, got Y".
func typeMismatches(props map[string]any, args map[string]any) []string {
	var out []string
	for _, key := range sortedKeys(args) {
		decl, ok := props[key].(map[string]any)
		if !ok {
			continue
		}
		declared := declaredTypes(decl)
		if len(declared) == 0 {
			continue
		}
		value := args[key]
		if !anyCompatible(value, declared) {
			out = append(out, fmt.Sprintf("'%s': expected %s, got %s",
				key, strings.Join(declared, " or "), valueType(value)))
		}
	}
	return out
}

// declaredTypes reads the "type" keyword, which may be a single name or a
// union list of acceptable names.
func declaredTypes(decl map[string]any) []string {
	switch t := decl["type"].(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, entry := range t {
			if s, ok := entry.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func anyCompatible(value any, declared []string) bool {
	for _, d := range declared {
		if compatible(value, d) {
			return true
		}
	}
	return false
}

// compatible reports whether a decoded JSON value satisfies a declared
// schema type. Numbers decode as float64, so "integer" accepts any float64
// without a fractional part.
func compatible(value any, declared string) bool {
	switch declared {
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "null":
		return value == nil
	case "number":
		return isNumber(value)
	case "integer":
		switch v := value.(type) {
		case float64:
			return v == math.Trunc(v)
		case float32:
			return float64(v) == math.Trunc(float64(v))
		case int, int32, int64:
			return true
		}
		return false
	}
	// Unknown declared type: do not reject what we cannot check.
	return true
}

func isNumber(value any) bool {
	switch value.(type) {
	case float64, float32, int, int32, int64:
		return true
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// valueType names a decoded JSON value's type in schema vocabulary.
func valueType(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case float64:
		if v == math.Trunc(v) {
			return "integer"
		}
		return "number"
	case float32, int, int32, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", value)
	}
}
