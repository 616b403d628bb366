package mcpserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/typeschema/internal/config"
	"github.com/erraggy/typeschema/internal/loader"
)

const orgManifest = `declarations:
  - kind: class
    name: Org
    location: src/org.ts
    properties:
      - name: id
        type: number
      - name: parent
        type: Org
        optional: true
  - kind: class
    name: User
    location: src/user.ts
    properties:
      - name: id
        type: number
      - name: email
        type: string
        optional: true
`

func newTestState(t *testing.T) *state {
	t.Helper()
	cfg := &config.Config{RefPrefix: "#/components/schemas/", MaxDepth: 0, MaxSources: 2}
	st, err := newState(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(st.close)
	return st
}

func TestSanitizeError(t *testing.T) {
	assert.Equal(t, "", sanitizeError(nil))
	assert.Equal(t, "open <path>: no such file", sanitizeError(errors.New("open /home/me/models.yaml: no such file")))
}

func TestNewState_InvalidSize(t *testing.T) {
	_, err := newState(&config.Config{MaxSources: 0}, slog.Default())
	assert.Error(t, err)
}

func TestState_EngineReuse(t *testing.T) {
	st := newTestState(t)
	src := loader.Source{Content: orgManifest}

	a, err := st.engine(src)
	require.NoError(t, err)
	b, err := st.engine(src)
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = st.engine(loader.Source{})
	assert.ErrorIs(t, err, loader.ErrNoSource)
}

func TestState_EvictionDisposes(t *testing.T) {
	st := newTestState(t)

	first, err := st.engine(loader.Source{Content: orgManifest})
	require.NoError(t, err)
	_, err = st.engine(loader.Source{Content: orgManifest + "\n"})
	require.NoError(t, err)
	_, err = st.engine(loader.Source{Content: orgManifest + "\n\n"})
	require.NoError(t, err)

	assert.Equal(t, 2, st.engines.Len())
	_, err = first.Transform("Org")
	assert.Error(t, err, "evicted engines are disposed")
}

// startTestSession creates an in-process MCP server/client pair and returns
// the connected client session. The server is shut down when the test ends.
func startTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "typeschema-test", Version: "test"},
		nil,
	)
	registerAllTools(server, newTestState(t))

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(
		&mcp.Implementation{Name: "test-client", Version: "test"},
		nil,
	)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})

	return session
}

func TestIntegration_ListTools(t *testing.T) {
	session := startTestSession(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, "tool %q has empty description", tool.Name)
	}
	assert.ElementsMatch(t, []string{"transform", "clear_cache"}, names)
}

func TestIntegration_CallTool_Transform(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "transform",
		Arguments: map[string]any{
			"source": map[string]any{"content": orgManifest},
			"names":  []string{"Org"},
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "transform should succeed")

	structured := unmarshalStructured(t, result)
	results := structured["results"].([]any)
	require.Len(t, results, 1)
	org := results[0].(map[string]any)
	assert.Equal(t, "Org", org["name"])
	assert.Equal(t, "src/org.ts#Org", org["id"])
	assert.Equal(t, true, org["found"])

	components := structured["components"].(map[string]any)
	assert.Contains(t, components, "Org")
}

func TestIntegration_CallTool_Error(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "transform",
		Arguments: map[string]any{
			"source": map[string]any{},
			"names":  []string{"Org"},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
