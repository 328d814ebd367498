package stub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderAlwaysSucceeds(t *testing.T) {
	b := NewBuilder()
	assert.Equal(t, "stub", b.Name())
	assert.True(t, b.Available(context.Background()))

	result, err := b.Build(context.Background(), "/tmp/checkout")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Diagnostics)
}

func TestBuilderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder().Build(ctx, "/tmp/checkout")
	assert.ErrorIs(t, err, context.Canceled)
}
