package contextutil_test

import (
	"context"
	"testing"

	"hr-ops/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestID(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "REQ-1")
	assert.Equal(t, "REQ-1", contextutil.GetRequestID(ctx))
	assert.Equal(t, "", contextutil.GetRequestID(context.Background()))
}

func TestGetLogger_Fallbacks(t *testing.T) {
	scoped := zap.NewExample()
	fallback := zap.NewNop()

	ctx := contextutil.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, contextutil.GetLogger(ctx, fallback))
	assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
}
