package names

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticResolve(t *testing.T) {
	r := Static{"u1": "Alice", "u2": "Bob"}

	got, err := r.Resolve(context.Background(), []string{"u1", "u3"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"u1": "Alice"}, got, "unknown ids are omitted, not errors")
}
