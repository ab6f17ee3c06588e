package catalog

import (
	"fmt"
	"os"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

// fileTool is one entry in a catalog file.
type fileTool struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	InputSchema map[string]any `yaml:"input_schema"`
}

type catalogFile struct {
	Tools []fileTool `yaml:"tools"`
}

// LoadFile reads tool schemas from a YAML (or JSON, which yaml.v3 also
// parses) catalog file and returns a populated catalog. Duplicate or
// unnamed entries fail the whole load.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return parseFile(data)
}

func parseFile(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	c := New()
	for i, entry := range file.Tools {
		if entry.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: tool name is required", i)
		}
		tool := model.Tool{
			Tool: mcp.Tool{
				Name:        entry.Name,
				Description: entry.Description,
				InputSchema: entry.InputSchema,
			},
		}
		if err := c.Register(tool); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
	}
	return c, nil
}
