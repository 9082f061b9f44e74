//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"opencatalogi/internal/catalogi/models"
	"opencatalogi/internal/catalogi/store"
	"opencatalogi/internal/notifications"
	"opencatalogi/internal/notifications/ledger"
	"opencatalogi/pkg/platform/sentinel"
	txcontext "opencatalogi/pkg/platform/tx"
	"opencatalogi/pkg/testutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()
	pool := testutil.StartPostgres(ctx, t, store.Schema)
	s := store.NewPostgresStore(pool)

	cat, err := models.NewCatalogus(uuid.New(), "WOZ", "123456782", "Belastingen", day(2024, time.January, 1))
	require.NoError(t, err)
	require.NoError(t, s.CreateCatalogus(ctx, cat))

	t.Run("zaaktype round trip", func(t *testing.T) {
		zt, err := models.NewZaakType(uuid.New(), cat.ID, "ZT-001", "Aanvraag vergunning", "Vergunning verlenen", models.VertrouwelijkheidOpenbaar, models.Geldigheid{Begin: day(2024, time.January, 1)}, day(2024, time.January, 1))
		require.NoError(t, err)
		require.NoError(t, s.CreateZaakType(ctx, zt))

		got, err := s.GetZaakType(ctx, zt.ID)
		require.NoError(t, err)
		require.Equal(t, zt.Omschrijving, got.Omschrijving)
		require.True(t, got.IsConcept())
		require.True(t, got.Geldigheid.Begin.Equal(day(2024, time.January, 1)))
		require.Nil(t, got.Geldigheid.Einde)

		got.Doel = "aangepast"
		require.NoError(t, s.UpdateZaakType(ctx, got))
		again, err := s.GetZaakType(ctx, zt.ID)
		require.NoError(t, err)
		require.Equal(t, "aangepast", again.Doel)

		require.NoError(t, s.DeleteZaakType(ctx, zt.ID))
		_, err = s.GetZaakType(ctx, zt.ID)
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("transaction rolls back and discards hooks", func(t *testing.T) {
		zt, err := models.NewZaakType(uuid.New(), cat.ID, "", "Melding overlast", "", models.VertrouwelijkheidOpenbaar, models.Geldigheid{Begin: day(2024, time.January, 1)}, day(2024, time.January, 1))
		require.NoError(t, err)

		boom := errors.New("boom")
		var hookFired bool
		err = s.RunInTx(ctx, func(ctx context.Context) error {
			if err := s.CreateZaakType(ctx, zt); err != nil {
				return err
			}
			txcontext.AfterCommit(ctx, func(context.Context) { hookFired = true })
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.False(t, hookFired)

		_, err = s.GetZaakType(ctx, zt.ID)
		require.ErrorIs(t, err, sentinel.ErrNotFound, "rolled back create must not persist")
	})

	t.Run("publish surface", func(t *testing.T) {
		zt, err := models.NewZaakType(uuid.New(), cat.ID, "", "Aanvraag subsidie", "", models.VertrouwelijkheidOpenbaar, models.Geldigheid{Begin: day(2018, time.January, 1)}, day(2024, time.January, 1))
		require.NoError(t, err)
		require.NoError(t, s.CreateZaakType(ctx, zt))

		st, err := models.NewStatusType(uuid.New(), zt.ID, "Afgehandeld", 1)
		require.NoError(t, err)
		require.NoError(t, s.CreateStatusType(ctx, st))

		err = s.RunInTx(ctx, func(ctx context.Context) error {
			locked, err := s.GetZaakTypeForUpdate(ctx, zt.ID)
			if err != nil {
				return err
			}
			require.True(t, locked.IsConcept())

			counts, err := s.CountZaakTypeChildren(ctx, zt.ID)
			if err != nil {
				return err
			}
			require.Equal(t, store.ChildCounts{StatusTypen: 1}, counts)

			family, err := s.ListVersionFamily(ctx, models.KindZaakType, cat.ID, "Aanvraag subsidie")
			if err != nil {
				return err
			}
			require.Len(t, family, 1)

			return s.MarkPublished(ctx, []models.TypeRef{zt.Ref()}, day(2024, time.March, 1))
		})
		require.NoError(t, err)

		got, err := s.GetZaakType(ctx, zt.ID)
		require.NoError(t, err)
		require.False(t, got.IsConcept())
	})

	t.Run("besluittype relations", func(t *testing.T) {
		zt, err := models.NewZaakType(uuid.New(), cat.ID, "", "Handhaving", "", models.VertrouwelijkheidOpenbaar, models.Geldigheid{Begin: day(2024, time.January, 1)}, day(2024, time.January, 1))
		require.NoError(t, err)
		require.NoError(t, s.CreateZaakType(ctx, zt))

		bt, err := models.NewBesluitType(uuid.New(), cat.ID, "Handhavingsbesluit", true, []uuid.UUID{zt.ID}, models.Geldigheid{Begin: day(2024, time.January, 1)}, day(2024, time.January, 1))
		require.NoError(t, err)
		require.NoError(t, s.CreateBesluitType(ctx, bt))

		related, err := s.ListRelatedBesluitTypen(ctx, zt.ID)
		require.NoError(t, err)
		require.Len(t, related, 1)
		require.Equal(t, bt.ID, related[0].ID)

		got, err := s.GetBesluitType(ctx, bt.ID)
		require.NoError(t, err)
		require.Equal(t, []uuid.UUID{zt.ID}, got.ZaakTypeIDs)
	})
}

func TestPostgresLedger(t *testing.T) {
	ctx := context.Background()
	pool := testutil.StartPostgres(ctx, t, store.Schema)
	s := ledger.NewPostgresStore(pool)

	ev := notifications.Event{
		Kanaal:       notifications.KanaalZaakTypen,
		HoofdObject:  "https://catalogi.example.nl/catalogi/api/v1/zaaktypen/aaa",
		Resource:     "zaaktype",
		ResourceURL:  "https://catalogi.example.nl/catalogi/api/v1/zaaktypen/aaa",
		Actie:        notifications.ActieUpdate,
		Aanmaakdatum: day(2024, time.March, 1),
		Kenmerken:    map[string]string{"catalogus": "https://catalogi.example.nl/catalogi/api/v1/catalogussen/bbb"},
	}
	fn := &notifications.FailedNotification{
		ID:       uuid.New(),
		LoggedAt: day(2024, time.March, 1),
		Kanaal:   notifications.KanaalZaakTypen,
		Message:  ev,
	}
	require.NoError(t, s.Append(ctx, fn))

	got, err := s.Get(ctx, fn.ID)
	require.NoError(t, err)
	require.Equal(t, ev.Kenmerken, got.Message.Kenmerken)
	require.Equal(t, ev.ResourceURL, got.Message.ResourceURL)
	require.True(t, ev.Aanmaakdatum.Equal(got.Message.Aanmaakdatum))

	old := &notifications.FailedNotification{
		ID:       uuid.New(),
		LoggedAt: day(2024, time.February, 1),
		Kanaal:   notifications.KanaalBesluitTypen,
		Message:  ev,
	}
	require.NoError(t, s.Append(ctx, old))

	n, err := s.DeleteOlderThan(ctx, day(2024, time.February, 15))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	list, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, fn.ID, list[0].ID)
}
