// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes typeschema transforms as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/typeschema"
	"github.com/erraggy/typeschema/internal/config"
)

const serverInstructions = `typeschema MCP server: turns class, enum, and Go struct declarations into OpenAPI component schemas.

Sources: every tool takes a source with exactly one of manifest (path to a YAML/JSON manifest), content (inline manifest), or packages (Go package patterns, resolved in dir).

Configuration: defaults come from TYPESCHEMA_* environment variables set in your MCP client config.
- TYPESCHEMA_REF_PREFIX (default: #/components/schemas/) - prefix of emitted $ref values
- TYPESCHEMA_REF_NAMING (default: type) - type, qualified, pascal, camel, snake, kebab, full-path
- TYPESCHEMA_GENERIC_NAMING (default: underscore) - underscore, of, for, flattened
- TYPESCHEMA_CACHE_LIMIT (default: 0, unbounded) - schema cache entries per source
- TYPESCHEMA_MAX_DEPTH (default: 0, unlimited) - nesting limit for non-cyclic input
- TYPESCHEMA_MAX_SOURCES (default: 8) - loaded sources kept warm

Caching: each source keeps one engine so repeated transforms reuse cached schemas. Manifest files are keyed by path and modification time. Use clear_cache after editing Go sources.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	cfg := config.Load()
	st, err := newState(cfg, cfg.NewLogger(os.Stderr))
	if err != nil {
		return err
	}
	defer st.close()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "typeschema", Version: typeschema.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server, st)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server, st *state) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transform",
		Description: "Transform declarations into OpenAPI schemas. Pass names to transform declared classes or enums by name, and/or type for a type expression such as Page<User>, User[], or Pick<User, 'id' | 'email'>. Self-referencing types are emitted as $ref values and the referenced schemas are returned in components. Use format=jsonschema for standalone JSON Schema 2020-12 documents with $defs.",
	}, st.handleTransform)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_cache",
		Description: "Drop cached schemas and loaded sources. With a source, only that source is dropped; without one, every source is. The next transform reloads from disk.",
	}, st.handleClearCache)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// jsonValue round-trips v through encoding/json so tool outputs carry plain
// maps instead of recursive Go types.
func jsonValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
