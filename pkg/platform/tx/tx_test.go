package tx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAfterCommit_DeferredUntilFlush(t *testing.T) {
	ctx, hooks := WithHooks(context.Background())

	var calls []string
	AfterCommit(ctx, func(context.Context) { calls = append(calls, "first") })
	AfterCommit(ctx, func(context.Context) { calls = append(calls, "second") })

	assert.Empty(t, calls, "hooks must not run before the transaction commits")

	hooks.Flush(context.Background())
	assert.Equal(t, []string{"first", "second"}, calls)

	// a second flush must not replay hooks
	hooks.Flush(context.Background())
	assert.Len(t, calls, 2)
}

func TestAfterCommit_ImmediateWithoutTransaction(t *testing.T) {
	called := false
	AfterCommit(context.Background(), func(context.Context) { called = true })
	assert.True(t, called, "outside a transaction hooks run immediately")
}

func TestHooks_DiscardedOnRollback(t *testing.T) {
	_, hooks := WithHooks(context.Background())

	called := false
	ctx2, _ := WithHooks(context.Background())
	AfterCommit(ctx2, func(context.Context) { called = true })

	// only flushing the collector that committed runs its hooks
	hooks.Flush(context.Background())
	assert.False(t, called)
}
