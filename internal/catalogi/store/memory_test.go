package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"opencatalogi/internal/catalogi/models"
	"opencatalogi/pkg/platform/sentinel"
	txcontext "opencatalogi/pkg/platform/tx"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedCatalogus(t *testing.T, s *InMemoryStore) *models.Catalogus {
	t.Helper()
	c, err := models.NewCatalogus(uuid.New(), "WOZ", "123456782", "", day(2024, time.January, 1))
	require.NoError(t, err)
	require.NoError(t, s.CreateCatalogus(context.Background(), c))
	return c
}

func seedZaakType(t *testing.T, s *InMemoryStore, catalogusID uuid.UUID, omschrijving string, geldigheid models.Geldigheid) *models.ZaakType {
	t.Helper()
	zt, err := models.NewZaakType(uuid.New(), catalogusID, "", omschrijving, "", models.VertrouwelijkheidOpenbaar, geldigheid, day(2024, time.January, 1))
	require.NoError(t, err)
	require.NoError(t, s.CreateZaakType(context.Background(), zt))
	return zt
}

func TestInMemoryStoreZaakTypeCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	cat := seedCatalogus(t, s)

	zt := seedZaakType(t, s, cat.ID, "Aanvraag vergunning", models.Geldigheid{Begin: day(2024, time.January, 1)})

	require.ErrorIs(t, s.CreateZaakType(ctx, zt), sentinel.ErrConflict)

	got, err := s.GetZaakType(ctx, zt.ID)
	require.NoError(t, err)
	require.Equal(t, zt.Omschrijving, got.Omschrijving)

	// reads return copies, mutating one must not leak into the store
	got.Omschrijving = "gewijzigd"
	again, err := s.GetZaakType(ctx, zt.ID)
	require.NoError(t, err)
	require.Equal(t, "Aanvraag vergunning", again.Omschrijving)

	_, err = s.GetZaakType(ctx, uuid.New())
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStoreDeleteZaakTypeCascades(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	cat := seedCatalogus(t, s)
	zt := seedZaakType(t, s, cat.ID, "Aanvraag vergunning", models.Geldigheid{Begin: day(2024, time.January, 1)})

	st, err := models.NewStatusType(uuid.New(), zt.ID, "Afgehandeld", 1)
	require.NoError(t, err)
	require.NoError(t, s.CreateStatusType(ctx, st))

	bt, err := models.NewBesluitType(uuid.New(), cat.ID, "Vergunningbesluit", false, []uuid.UUID{zt.ID}, models.Geldigheid{Begin: day(2024, time.January, 1)}, day(2024, time.January, 1))
	require.NoError(t, err)
	require.NoError(t, s.CreateBesluitType(ctx, bt))

	require.NoError(t, s.DeleteZaakType(ctx, zt.ID))

	sts, err := s.ListStatusTypen(ctx, zt.ID)
	require.NoError(t, err)
	require.Empty(t, sts, "owned sub-resources go with the parent")

	gotBT, err := s.GetBesluitType(ctx, bt.ID)
	require.NoError(t, err)
	require.Empty(t, gotBT.ZaakTypeIDs, "M2M link is dropped, besluittype survives")
}

func TestInMemoryStoreCountZaakTypeChildren(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	cat := seedCatalogus(t, s)
	zt := seedZaakType(t, s, cat.ID, "Aanvraag vergunning", models.Geldigheid{Begin: day(2024, time.January, 1)})

	counts, err := s.CountZaakTypeChildren(ctx, zt.ID)
	require.NoError(t, err)
	require.Equal(t, ChildCounts{}, counts)

	st, err := models.NewStatusType(uuid.New(), zt.ID, "Afgehandeld", 1)
	require.NoError(t, err)
	require.NoError(t, s.CreateStatusType(ctx, st))
	rt, err := models.NewRolType(uuid.New(), zt.ID, "Behandelaar", "")
	require.NoError(t, err)
	require.NoError(t, s.CreateRolType(ctx, rt))

	counts, err = s.CountZaakTypeChildren(ctx, zt.ID)
	require.NoError(t, err)
	require.Equal(t, ChildCounts{StatusTypen: 1, RolTypen: 1}, counts)
}

func TestInMemoryStoreListVersionFamily(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	cat := seedCatalogus(t, s)

	v1 := seedZaakType(t, s, cat.ID, "Aanvraag vergunning", models.Geldigheid{Begin: day(2018, time.January, 1)})
	v2 := seedZaakType(t, s, cat.ID, "Aanvraag vergunning", models.Geldigheid{Begin: day(2019, time.January, 1)})
	seedZaakType(t, s, cat.ID, "Melding overlast", models.Geldigheid{Begin: day(2018, time.January, 1)})

	family, err := s.ListVersionFamily(ctx, models.KindZaakType, cat.ID, "Aanvraag vergunning")
	require.NoError(t, err)
	require.Len(t, family, 2)
	ids := map[uuid.UUID]bool{family[0].ID: true, family[1].ID: true}
	require.True(t, ids[v1.ID])
	require.True(t, ids[v2.ID])
}

func TestInMemoryStoreMarkPublished(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	cat := seedCatalogus(t, s)
	zt := seedZaakType(t, s, cat.ID, "Aanvraag vergunning", models.Geldigheid{Begin: day(2024, time.January, 1)})

	now := day(2024, time.March, 1)
	require.NoError(t, s.MarkPublished(ctx, []models.TypeRef{zt.Ref()}, now))

	got, err := s.GetZaakType(ctx, zt.ID)
	require.NoError(t, err)
	require.False(t, got.IsConcept())
	require.Equal(t, now, got.UpdatedAt)
}

func TestInMemoryStoreRunInTxFlushesHooksAfterSuccess(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	var fired []string
	err := s.RunInTx(ctx, func(ctx context.Context) error {
		txcontext.AfterCommit(ctx, func(context.Context) { fired = append(fired, "first") })
		txcontext.AfterCommit(ctx, func(context.Context) { fired = append(fired, "second") })
		require.Empty(t, fired, "hooks must not run before the transaction ends")
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second"}, fired)
}

func TestInMemoryStoreRunInTxDiscardsHooksOnError(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	var fired bool
	err := s.RunInTx(ctx, func(ctx context.Context) error {
		txcontext.AfterCommit(ctx, func(context.Context) { fired = true })
		return sentinel.ErrInvalidState
	})
	require.ErrorIs(t, err, sentinel.ErrInvalidState)
	require.False(t, fired, "a failed transaction must not fire hooks")
}
