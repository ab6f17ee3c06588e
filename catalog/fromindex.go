package catalog

import (
	"fmt"

	"github.com/jonwraymond/tooldiscovery/index"
)

// FromIndex builds a catalog by resolving the named tools out of a
// tooldiscovery index. The index stays the system of record for discovery;
// the catalog is the frozen per-conversation view the orchestrator validates
// against.
func FromIndex(idx index.Index, ids ...string) (*Catalog, error) {
	c := New()
	for _, id := range ids {
		tool, _, err := idx.GetTool(id)
		if err != nil {
			return nil, fmt.Errorf("resolve tool %q: %w", id, err)
		}
		if err := c.Register(tool); err != nil {
			return nil, err
		}
	}
	return c, nil
}
