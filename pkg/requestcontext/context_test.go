package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNow(t *testing.T) {
	t.Run("returns injected time", func(t *testing.T) {
		fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		ctx := WithTime(context.Background(), fixed)
		assert.Equal(t, fixed, Now(ctx))
	})

	t.Run("falls back to wall clock", func(t *testing.T) {
		before := time.Now()
		got := Now(context.Background())
		assert.False(t, got.Before(before))
	})
}

func TestPrincipal(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, UserID(ctx))
	assert.Empty(t, Role(ctx))

	ctx = WithPrincipal(ctx, "analyst-1", RoleAdmin)
	assert.Equal(t, "analyst-1", UserID(ctx))
	assert.Equal(t, RoleAdmin, Role(ctx))
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", RequestID(ctx))
}
