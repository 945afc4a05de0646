package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutSchema_DescribesRecordKeys(t *testing.T) {
	data, err := LayoutSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "panes")
	assert.Contains(t, props, "rows")
	assert.Contains(t, props, "activePaneId")
}

func TestLayoutCommandsAreRegistered(t *testing.T) {
	var names []string
	for _, c := range layoutCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"show", "reset", "split", "close", "focus", "open", "move", "schema"}, names)
}
