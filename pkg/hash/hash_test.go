package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecret(t *testing.T) {
	t.Parallel()

	h, err := HashSecret("4111111111111111")
	require.NoError(t, err)
	assert.NotEqual(t, "4111111111111111", h)
	assert.True(t, CheckSecret(h, "4111111111111111"))
	assert.False(t, CheckSecret(h, "4111111111111112"))
}
