package integration

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	t.Parallel()

	stdout, _, code := runPgrubic(t, "", "version")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "pgrubic version "), stdout)

	stdout, _, code = runPgrubic(t, "", "version", "--json")
	require.Equal(t, 0, code)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "postgresVersion")
}
