package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContext(t *testing.T) {
	log, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := WithContext(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	log := FromContext(context.Background())
	require.NotNil(t, log)
	// No-op logger must be safe to use
	log.Info("ignored")
}

func TestWithRequestID(t *testing.T) {
	log, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx, enriched := WithRequestID(context.Background(), log, "req-789")
	require.NotNil(t, enriched)
	assert.Equal(t, "req-789", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}
