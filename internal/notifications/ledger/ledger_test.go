package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"opencatalogi/internal/notifications"
	"opencatalogi/pkg/platform/sentinel"
)

func entryAt(loggedAt time.Time, kanaal notifications.Kanaal) *notifications.FailedNotification {
	return &notifications.FailedNotification{
		ID:       uuid.New(),
		LoggedAt: loggedAt,
		Kanaal:   kanaal,
		Message: notifications.Event{
			Kanaal:       kanaal,
			Resource:     "zaaktype",
			Actie:        notifications.ActieUpdate,
			Aanmaakdatum: loggedAt,
		},
	}
}

func TestInMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore()
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	fn := entryAt(now, notifications.KanaalZaakTypen)
	require.NoError(t, st.Append(ctx, fn))

	got, err := st.Get(ctx, fn.ID)
	require.NoError(t, err)
	require.Equal(t, fn.Message, got.Message)

	require.NoError(t, st.Delete(ctx, fn.ID))
	_, err = st.Get(ctx, fn.ID)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	require.ErrorIs(t, st.Delete(ctx, fn.ID), sentinel.ErrNotFound)
}

func TestInMemoryStoreListFiltersByKanaal(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore()
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, st.Append(ctx, entryAt(now, notifications.KanaalZaakTypen)))
	require.NoError(t, st.Append(ctx, entryAt(now.Add(time.Minute), notifications.KanaalBesluitTypen)))

	all, err := st.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.True(t, all[0].LoggedAt.Before(all[1].LoggedAt), "list is ordered by logged_at")

	zt, err := st.List(ctx, notifications.KanaalZaakTypen)
	require.NoError(t, err)
	require.Len(t, zt, 1)
}

func TestPurgerRemovesOnlyExpiredEntries(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore()
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	old := entryAt(now.Add(-8*24*time.Hour), notifications.KanaalZaakTypen)
	recent := entryAt(now.Add(-5*24*time.Hour), notifications.KanaalZaakTypen)
	require.NoError(t, st.Append(ctx, old))
	require.NoError(t, st.Append(ctx, recent))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewPurger(st, log, WithClock(func() time.Time { return now }))
	require.NoError(t, p.PurgeOnce(ctx))

	_, err := st.Get(ctx, old.ID)
	require.ErrorIs(t, err, sentinel.ErrNotFound, "day-8 entry is past the 7 day retention")

	_, err = st.Get(ctx, recent.ID)
	require.NoError(t, err, "day-5 entry stays")
}

func TestPurgerCustomRetention(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore()
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	fn := entryAt(now.Add(-36*time.Hour), notifications.KanaalZaakTypen)
	require.NoError(t, st.Append(ctx, fn))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewPurger(st, log,
		WithRetention(24*time.Hour),
		WithClock(func() time.Time { return now }))
	require.NoError(t, p.PurgeOnce(ctx))

	_, err := st.Get(ctx, fn.ID)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}
