package catalog

import (
	"encoding/json"

	"github.com/jonwraymond/toolstream/tag"
)

// toolView is the shape each schema takes inside the available-tools block.
// The model is instructed to match tool_name exactly, so the field names
// here are part of the prompt contract.
type toolView struct {
	ToolName    string `json:"tool_name"`
	Description string `json:"description,omitempty"`
	Arguments   any    `json:"arguments,omitempty"`
}

// PromptBlock renders the catalog as the <mcp_available_tools> block for the
// bootstrap system message. Tools appear sorted by name so the block is
// deterministic across runs.
func (c *Catalog) PromptBlock() string {
	views := make([]toolView, 0, c.Len())
	for _, tool := range c.Tools() {
		views = append(views, toolView{
			ToolName:    tool.Name,
			Description: tool.Description,
			Arguments:   tool.InputSchema,
		})
	}
	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		// Schemas come from JSON/YAML decoding, so they marshal; an empty
		// list is the only sane fallback.
		data = []byte("[]")
	}
	return tag.AvailableToolsOpen + "\n" + string(data) + "\n" + tag.AvailableToolsClose
}
