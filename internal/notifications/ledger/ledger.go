// Package ledger records notifications that could not be delivered. Entries
// keep the exact payload so replay sends what the original attempt would
// have sent.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"opencatalogi/internal/notifications"
)

// Store is the persistence surface of the failure ledger.
type Store interface {
	Append(ctx context.Context, fn *notifications.FailedNotification) error
	Get(ctx context.Context, id uuid.UUID) (*notifications.FailedNotification, error)
	List(ctx context.Context, kanaal notifications.Kanaal) ([]*notifications.FailedNotification, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteOlderThan removes entries logged before cutoff and reports how
	// many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
