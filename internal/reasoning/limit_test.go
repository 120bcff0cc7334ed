package reasoning

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter_Disabled(t *testing.T) {
	assert.Nil(t, NewLimiter(0, 5))
	assert.Nil(t, NewLimiter(-1, 5))
}

func TestNewLimiter_DefaultBurst(t *testing.T) {
	l := NewLimiter(10, 0)
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Burst())
}

func TestWithLimiter_NilPassesThrough(t *testing.T) {
	inner := Func(func(context.Context, string) (string, error) { return "ok", nil })
	r := WithLimiter(inner, nil)
	_, isLimited := r.(*Limited)
	assert.False(t, isLimited)
}

func TestLimited_Complete(t *testing.T) {
	var calls atomic.Int32
	inner := Func(func(_ context.Context, prompt string) (string, error) {
		calls.Add(1)
		return prompt, nil
	})

	r := WithLimiter(inner, NewLimiter(1000, 3))
	for i := 0; i < 3; i++ {
		out, err := r.Complete(context.Background(), "p")
		require.NoError(t, err)
		assert.Equal(t, "p", out)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestLimited_CanceledContext(t *testing.T) {
	var calls atomic.Int32
	inner := Func(func(context.Context, string) (string, error) {
		calls.Add(1)
		return "", nil
	})

	// One token per hour: the second call must wait and observe cancellation.
	r := WithLimiter(inner, NewLimiter(1.0/3600, 1))
	_, err := r.Complete(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Complete(ctx, "second")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
	assert.Equal(t, int32(1), calls.Load())
}
