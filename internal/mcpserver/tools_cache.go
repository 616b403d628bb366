package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/typeschema/internal/loader"
)

type clearCacheInput struct {
	Source *loader.Source `json:"source,omitempty" jsonschema:"Source to drop; omit to drop every loaded source"`
}

type clearCacheOutput struct {
	Cleared int `json:"cleared"`
}

func (st *state) handleClearCache(_ context.Context, _ *mcp.CallToolRequest, input clearCacheInput) (*mcp.CallToolResult, clearCacheOutput, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if input.Source == nil {
		n := st.engines.Len()
		st.engines.Purge()
		return nil, clearCacheOutput{Cleared: n}, nil
	}
	removed, err := st.drop(*input.Source)
	if err != nil {
		return errResult(err), clearCacheOutput{}, nil
	}
	if removed {
		return nil, clearCacheOutput{Cleared: 1}, nil
	}
	return nil, clearCacheOutput{}, nil
}
