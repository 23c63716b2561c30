package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteJSON(&b, map[string]any{"data": "a < b & c"}, false))
	assert.Equal(t, "{\"data\":\"a < b & c\"}\n", b.String())

	b.Reset()
	require.NoError(t, WriteJSON(&b, map[string]any{"data": []int{1}}, true))
	assert.Equal(t, "{\n  \"data\": [\n    1\n  ]\n}\n", b.String())
}
