package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleManifestSchema(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, runManifestSchema(nil, &stdout))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
	assert.Contains(t, doc["properties"], "declarations")

	assert.Error(t, runManifestSchema([]string{"-format", "jsonschema"}, &stdout))
	assert.NoError(t, runManifestSchema([]string{"-h"}, &stdout))
}

func TestHandleManifestSchema_YAML(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, runManifestSchema([]string{"-format", "yaml"}, &stdout))
	assert.Contains(t, stdout.String(), "declarations:")
}
