// Package tx carries transaction state and deferred post-commit hooks through
// context, so stores stay unaware of who needs to run after a commit.
package tx

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type (
	txKey    struct{}
	hooksKey struct{}
)

// WithTx stores a pgx transaction in context for downstream store usage.
func WithTx(ctx context.Context, t pgx.Tx) context.Context {
	if t == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, t)
}

// From extracts a pgx transaction from context if present.
func From(ctx context.Context) (pgx.Tx, bool) {
	t, ok := ctx.Value(txKey{}).(pgx.Tx)
	return t, ok
}

// Hooks collects callbacks that must run only after the enclosing transaction
// committed. Transaction runners create one per transaction and flush it after
// a successful commit; hooks registered in a rolled-back transaction are
// discarded with it.
type Hooks struct {
	fns []func(context.Context)
}

// WithHooks attaches a fresh hook collector to the context and returns both.
func WithHooks(ctx context.Context) (context.Context, *Hooks) {
	h := &Hooks{}
	return context.WithValue(ctx, hooksKey{}, h), h
}

// AfterCommit defers fn until the enclosing transaction commits. Outside a
// transaction the mutation is already durable, so fn runs immediately.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	if h, ok := ctx.Value(hooksKey{}).(*Hooks); ok {
		h.fns = append(h.fns, fn)
		return
	}
	fn(ctx)
}

// Flush runs the collected hooks in registration order. The context passed here
// must outlive the transaction; callers typically pass the request context
// stripped of the transaction value.
func (h *Hooks) Flush(ctx context.Context) {
	for _, fn := range h.fns {
		fn(ctx)
	}
	h.fns = nil
}
