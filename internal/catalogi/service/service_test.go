package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"opencatalogi/internal/catalogi/models"
	"opencatalogi/internal/catalogi/store"
	"opencatalogi/internal/notifications"
	"opencatalogi/pkg/platform/audit"
	"opencatalogi/pkg/requestcontext"
)

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (f *fakeNotifier) Dispatch(_ context.Context, ev notifications.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeNotifier) all() []notifications.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notifications.Event(nil), f.events...)
}

type fakeAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (f *fakeAuditor) Emit(ev audit.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func (f *fakeAuditor) all() []audit.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]audit.Event(nil), f.events...)
}

const testBaseURL = "https://catalogi.example.nl"

func newTestService(t *testing.T) (*Service, *store.InMemoryStore, *fakeNotifier, *fakeAuditor) {
	t.Helper()
	st := store.NewInMemoryStore()
	notifier := &fakeNotifier{}
	auditor := &fakeAuditor{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(st, notifier, auditor, log, testBaseURL), st, notifier, auditor
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func testCtx() context.Context {
	return requestcontext.WithTime(context.Background(), day(2024, time.March, 1))
}

func mustCreateCatalogus(t *testing.T, svc *Service, ctx context.Context) *models.Catalogus {
	t.Helper()
	c, err := svc.CreateCatalogus(ctx, "WOZ", "123456782", "Belastingen")
	require.NoError(t, err)
	return c
}

func mustCreateZaakType(t *testing.T, svc *Service, ctx context.Context, catalogusID uuid.UUID, omschrijving string, geldigheid models.Geldigheid) *models.ZaakType {
	t.Helper()
	zt, err := svc.CreateZaakType(ctx, CreateZaakTypeInput{
		CatalogusID:  catalogusID,
		Omschrijving: omschrijving,
		Geldigheid:   geldigheid,
	})
	require.NoError(t, err)
	return zt
}

// mustCompleteZaakType gives the zaaktype the minimum sub-resources needed
// for publication.
func mustCompleteZaakType(t *testing.T, svc *Service, ctx context.Context, zaaktypeID uuid.UUID) {
	t.Helper()
	_, err := svc.CreateStatusType(ctx, zaaktypeID, "Afgehandeld", 1)
	require.NoError(t, err)
	_, err = svc.CreateRolType(ctx, zaaktypeID, "Behandelaar", "behandelaar")
	require.NoError(t, err)
	_, err = svc.CreateResultaatType(ctx, zaaktypeID, "Toegekend", "")
	require.NoError(t, err)
}

func TestCreateZaakType_EmitsCreateEvent(t *testing.T) {
	svc, _, notifier, auditor := newTestService(t)
	ctx := testCtx()
	cat := mustCreateCatalogus(t, svc, ctx)

	zt := mustCreateZaakType(t, svc, ctx, cat.ID, "Aanvraag vergunning", models.Geldigheid{Begin: day(2024, time.January, 1)})
	require.True(t, zt.IsConcept())

	events := notifier.all()
	require.Len(t, events, 1)
	ev := events[0]
	require.Equal(t, notifications.KanaalZaakTypen, ev.Kanaal)
	require.Equal(t, notifications.ActieCreate, ev.Actie)
	require.Equal(t, "zaaktype", ev.Resource)
	require.Equal(t, testBaseURL+"/catalogi/api/v1/zaaktypen/"+zt.ID.String(), ev.ResourceURL)
	require.Equal(t, ev.ResourceURL, ev.HoofdObject)
	require.Equal(t, testBaseURL+"/catalogi/api/v1/catalogussen/"+cat.ID.String(), ev.Kenmerken["catalogus"])
	require.Equal(t, time.UTC, ev.Aanmaakdatum.Location())

	audits := auditor.all()
	require.Len(t, audits, 1)
	require.Equal(t, audit.ActionCreate, audits[0].Action)
	require.Equal(t, zt.ID, audits[0].ResourceID)
}

func TestCreateZaakType_UnknownCatalogus(t *testing.T) {
	svc, _, notifier, _ := newTestService(t)
	ctx := testCtx()

	_, err := svc.CreateZaakType(ctx, CreateZaakTypeInput{
		CatalogusID:  uuid.New(),
		Omschrijving: "Aanvraag vergunning",
		Geldigheid:   models.Geldigheid{Begin: day(2024, time.January, 1)},
	})
	require.Error(t, err)
	require.Empty(t, notifier.all(), "failed create must not notify")
}

func TestUpdateZaakType_NoChangeSuppressesNotification(t *testing.T) {
	svc, _, notifier, _ := newTestService(t)
	ctx := testCtx()
	cat := mustCreateCatalogus(t, svc, ctx)
	zt := mustCreateZaakType(t, svc, ctx, cat.ID, "Aanvraag vergunning", models.Geldigheid{Begin: day(2024, time.January, 1)})
	before := len(notifier.all())

	_, err := svc.UpdateZaakType(ctx, zt.ID, CreateZaakTypeInput{
		CatalogusID:                 cat.ID,
		Omschrijving:                zt.Omschrijving,
		Vertrouwelijkheidaanduiding: zt.Vertrouwelijkheidaanduiding,
		Geldigheid:                  zt.Geldigheid,
	})
	require.NoError(t, err)
	require.Len(t, notifier.all(), before, "identical submission must not produce an event")

	// a real change does notify
	_, err = svc.UpdateZaakType(ctx, zt.ID, CreateZaakTypeInput{
		CatalogusID:  cat.ID,
		Omschrijving: zt.Omschrijving,
		Doel:         "Vergunningen verlenen",
		Geldigheid:   zt.Geldigheid,
	})
	require.NoError(t, err)
	events := notifier.all()
	require.Len(t, events, before+1)
	require.Equal(t, notifications.ActieUpdate, events[len(events)-1].Actie)
}

func TestUpdateZaakType_PublishedIsFrozen(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := testCtx()
	cat := mustCreateCatalogus(t, svc, ctx)
	zt := mustCreateZaakType(t, svc, ctx, cat.ID, "Aanvraag vergunning", models.Geldigheid{Begin: day(2024, time.January, 1)})
	mustCompleteZaakType(t, svc, ctx, zt.ID)

	_, err := svc.PublishZaakType(ctx, zt.ID, false)
	require.NoError(t, err)

	_, err = svc.UpdateZaakType(ctx, zt.ID, CreateZaakTypeInput{
		CatalogusID:  cat.ID,
		Omschrijving: "Aangepast",
		Geldigheid:   zt.Geldigheid,
	})
	require.Error(t, err)

	err = svc.DeleteZaakType(ctx, zt.ID)
	require.Error(t, err, "published zaaktype cannot be deleted")

	_, err = svc.CreateStatusType(ctx, zt.ID, "Extra", 2)
	require.Error(t, err, "sub-resources of a published zaaktype are frozen")
}

func TestDeleteZaakType_Draft(t *testing.T) {
	svc, st, notifier, _ := newTestService(t)
	ctx := testCtx()
	cat := mustCreateCatalogus(t, svc, ctx)
	zt := mustCreateZaakType(t, svc, ctx, cat.ID, "Aanvraag vergunning", models.Geldigheid{Begin: day(2024, time.January, 1)})
	mustCompleteZaakType(t, svc, ctx, zt.ID)
	before := len(notifier.all())

	require.NoError(t, svc.DeleteZaakType(ctx, zt.ID))

	_, err := st.GetZaakType(ctx, zt.ID)
	require.Error(t, err)
	sts, err := st.ListStatusTypen(ctx, zt.ID)
	require.NoError(t, err)
	require.Empty(t, sts, "owned sub-resources are deleted with the parent")

	events := notifier.all()
	require.Len(t, events, before+1)
	require.Equal(t, notifications.ActieDestroy, events[len(events)-1].Actie)
}

func TestCreateBesluitType_ValidatesZaakTypeRefs(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := testCtx()
	cat := mustCreateCatalogus(t, svc, ctx)

	_, err := svc.CreateBesluitType(ctx, CreateBesluitTypeInput{
		CatalogusID:  cat.ID,
		Omschrijving: "Vergunningbesluit",
		ZaakTypeIDs:  []uuid.UUID{uuid.New()},
		Geldigheid:   models.Geldigheid{Begin: day(2024, time.January, 1)},
	})
	require.Error(t, err)
}

func TestDeleteZaakType_KeepsRelatedBesluitType(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := testCtx()
	cat := mustCreateCatalogus(t, svc, ctx)
	zt := mustCreateZaakType(t, svc, ctx, cat.ID, "Aanvraag vergunning", models.Geldigheid{Begin: day(2024, time.January, 1)})

	bt, err := svc.CreateBesluitType(ctx, CreateBesluitTypeInput{
		CatalogusID:  cat.ID,
		Omschrijving: "Vergunningbesluit",
		ZaakTypeIDs:  []uuid.UUID{zt.ID},
		Geldigheid:   models.Geldigheid{Begin: day(2024, time.January, 1)},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteZaakType(ctx, zt.ID))

	got, err := st.GetBesluitType(ctx, bt.ID)
	require.NoError(t, err)
	require.Empty(t, got.ZaakTypeIDs, "link is removed, besluittype survives")
}
