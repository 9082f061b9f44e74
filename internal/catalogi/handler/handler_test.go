package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"opencatalogi/internal/catalogi/service"
	"opencatalogi/internal/catalogi/store"
	"opencatalogi/internal/notifications"
	"opencatalogi/internal/notifications/ledger"
	"opencatalogi/pkg/platform/audit"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (c *captureNotifier) Dispatch(_ context.Context, ev notifications.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

type nopAuditor struct{}

func (nopAuditor) Emit(audit.Event) {}

func newTestServer(t *testing.T) (*httptest.Server, *captureNotifier, ledger.Store) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewInMemoryStore()
	notifier := &captureNotifier{}
	svc := service.New(st, notifier, nopAuditor{}, log, "https://catalogi.example.nl")
	ledgerSt := ledger.NewInMemoryStore()

	r := chi.NewRouter()
	New(svc, log).Routes(r)
	NewAdminHandler(ledgerSt, notifier, log).Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, notifier, ledgerSt
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func createCatalogus(t *testing.T, base string) uuid.UUID {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/catalogi/api/v1/catalogussen", map[string]any{
		"domein": "WOZ",
		"rsin":   "123456782",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.ID
}

func createZaakType(t *testing.T, base string, catalogusID uuid.UUID, omschrijving string) uuid.UUID {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/catalogi/api/v1/zaaktypen", map[string]any{
		"catalogus":       catalogusID,
		"omschrijving":    omschrijving,
		"beginGeldigheid": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out struct {
		ID      uuid.UUID `json:"id"`
		Concept bool      `json:"concept"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.True(t, out.Concept, "new zaaktype starts as a draft")
	return out.ID
}

func completeZaakType(t *testing.T, base string, ztID uuid.UUID) {
	t.Helper()
	prefix := fmt.Sprintf("%s/catalogi/api/v1/zaaktypen/%s", base, ztID)
	resp, body := doJSON(t, http.MethodPost, prefix+"/statustypen", map[string]any{"omschrijving": "Afgehandeld", "volgnummer": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	resp, body = doJSON(t, http.MethodPost, prefix+"/roltypen", map[string]any{"omschrijving": "Behandelaar"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	resp, body = doJSON(t, http.MethodPost, prefix+"/resultaattypen", map[string]any{"omschrijving": "Toegekend"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

func TestZaakTypeLifecycleOverHTTP(t *testing.T) {
	srv, _, _ := newTestServer(t)
	catID := createCatalogus(t, srv.URL)
	ztID := createZaakType(t, srv.URL, catID, "Aanvraag vergunning")
	completeZaakType(t, srv.URL, ztID)

	// publish
	resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/catalogi/api/v1/zaaktypen/%s/publish", srv.URL, ztID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var result service.PublishResult
	require.NoError(t, json.Unmarshal(body, &result))
	require.False(t, result.AlreadyPublished)
	require.Len(t, result.Published, 1)

	// now frozen
	resp, body = doJSON(t, http.MethodPut, fmt.Sprintf("%s/catalogi/api/v1/zaaktypen/%s", srv.URL, ztID), map[string]any{
		"catalogus":       catID,
		"omschrijving":    "Aangepast",
		"beginGeldigheid": "2024-01-01",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(body))

	// republish is a no-op
	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/catalogi/api/v1/zaaktypen/%s/publish", srv.URL, ztID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &result))
	require.True(t, result.AlreadyPublished)
}

func TestPublishValidationFailureOverHTTP(t *testing.T) {
	srv, _, _ := newTestServer(t)
	catID := createCatalogus(t, srv.URL)
	ztID := createZaakType(t, srv.URL, catID, "Aanvraag vergunning")

	// no sub-resources yet
	resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/catalogi/api/v1/zaaktypen/%s/publish", srv.URL, ztID), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

	var errBody struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.Unmarshal(body, &errBody))
	require.Equal(t, "bad_request", errBody.Code)
	require.Equal(t, "incomplete_definition", errBody.Details["reason"])
}

func TestAutoPublishOverHTTP(t *testing.T) {
	srv, _, _ := newTestServer(t)
	catID := createCatalogus(t, srv.URL)
	ztID := createZaakType(t, srv.URL, catID, "Aanvraag vergunning")
	completeZaakType(t, srv.URL, ztID)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/catalogi/api/v1/besluittypen", map[string]any{
		"catalogus":       catID,
		"omschrijving":    "Vergunningbesluit",
		"zaaktypen":       []uuid.UUID{ztID},
		"beginGeldigheid": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	// without auto-publish the draft relation blocks
	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/catalogi/api/v1/zaaktypen/%s/publish", srv.URL, ztID), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

	// with auto-publish the cascade succeeds and reports what it did
	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/catalogi/api/v1/zaaktypen/%s/publish", srv.URL, ztID),
		map[string]any{"autoPublishRelated": true})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var result service.PublishResult
	require.NoError(t, json.Unmarshal(body, &result))
	require.Len(t, result.AutoPublished, 1)
	require.Contains(t, result.Report, "Vergunningbesluit")
}

func TestGetUnknownZaakType(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/catalogi/api/v1/zaaktypen/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/catalogi/api/v1/zaaktypen/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFailedNotificationAdminAPI(t *testing.T) {
	srv, notifier, ledgerSt := newTestServer(t)
	ctx := context.Background()

	fn := &notifications.FailedNotification{
		ID:     uuid.New(),
		Kanaal: notifications.KanaalZaakTypen,
		Message: notifications.Event{
			Kanaal:   notifications.KanaalZaakTypen,
			Resource: "zaaktype",
			Actie:    notifications.ActieUpdate,
		},
	}
	require.NoError(t, ledgerSt.Append(ctx, fn))

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/admin/api/v1/failed-notifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []*notifications.FailedNotification
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)

	// resend queues the stored payload and clears the entry
	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("%s/admin/api/v1/failed-notifications/%s/resend", srv.URL, fn.ID), nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	notifier.mu.Lock()
	require.Len(t, notifier.events, 1)
	require.Equal(t, fn.Message, notifier.events[0])
	notifier.mu.Unlock()

	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/admin/api/v1/failed-notifications/%s", srv.URL, fn.ID), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
