// Package service implements the catalogi use cases: managing draft type
// definitions, validating and publishing them (with cascade), and emitting
// change notifications strictly after the database commit.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"opencatalogi/internal/catalogi/models"
	"opencatalogi/internal/catalogi/store"
	"opencatalogi/internal/notifications"
	"opencatalogi/pkg/platform/audit"
	"opencatalogi/pkg/platform/tx"
	"opencatalogi/pkg/requestcontext"
)

var tracer = otel.Tracer("opencatalogi/catalogi")

// Notifier queues change events for delivery. Satisfied by the notification
// dispatcher; a no-op implementation serves tests.
type Notifier interface {
	Dispatch(ctx context.Context, ev notifications.Event)
}

// Auditor records who changed what. Satisfied by the audit publisher.
type Auditor interface {
	Emit(ev audit.Event)
}

// Service is the catalogi application service. All mutations run inside a
// store transaction; notifications and audit events are registered as
// post-commit hooks so nothing external observes an uncommitted change.
type Service struct {
	store    store.Store
	notifier Notifier
	auditor  Auditor
	log      *slog.Logger
	baseURL  string
	newID    func() uuid.UUID
}

type Option func(*Service)

// WithIDGenerator overrides ID generation, used by tests that need
// deterministic identifiers.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *Service) { s.newID = newID }
}

func New(st store.Store, notifier Notifier, auditor Auditor, log *slog.Logger, baseURL string, opts ...Option) *Service {
	s := &Service{
		store:    st,
		notifier: notifier,
		auditor:  auditor,
		log:      log,
		baseURL:  baseURL,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resourceURL builds the canonical API URL of a resource.
func (s *Service) resourceURL(resource string, id uuid.UUID) string {
	return fmt.Sprintf("%s/catalogi/api/v1/%s/%s", s.baseURL, resource, id)
}

func kanaalFor(kind models.TypeKind) notifications.Kanaal {
	switch kind {
	case models.KindBesluitType:
		return notifications.KanaalBesluitTypen
	case models.KindInformatieObjectType:
		return notifications.KanaalInformatieObjectTypen
	default:
		return notifications.KanaalZaakTypen
	}
}

func collectionFor(kind models.TypeKind) string {
	switch kind {
	case models.KindBesluitType:
		return "besluittypen"
	case models.KindInformatieObjectType:
		return "informatieobjecttypen"
	default:
		return "zaaktypen"
	}
}

// notifyAfterCommit registers a post-commit hook that queues the change
// event. Inside a transaction the hook fires only on commit; a rollback
// discards it, so external systems never hear about failed mutations.
func (s *Service) notifyAfterCommit(ctx context.Context, entity models.Publishable, actie notifications.Actie) {
	ref := entity.Ref()
	url := s.resourceURL(collectionFor(ref.Kind), ref.ID)
	ev := notifications.Event{
		Kanaal:       kanaalFor(ref.Kind),
		HoofdObject:  url,
		Resource:     string(ref.Kind),
		ResourceURL:  url,
		Actie:        actie,
		Aanmaakdatum: requestcontext.Now(ctx).UTC(),
		Kenmerken: map[string]string{
			"catalogus": s.resourceURL("catalogussen", entity.Catalogus()),
		},
	}
	tx.AfterCommit(ctx, func(ctx context.Context) {
		s.notifier.Dispatch(ctx, ev)
	})
}

// notifySubResourceAfterCommit queues an event for an owned sub-resource.
// The hoofdObject is the parent zaaktype; the kanaal stays zaaktypen.
func (s *Service) notifySubResourceAfterCommit(ctx context.Context, zt *models.ZaakType, resource string, resourceID uuid.UUID, actie notifications.Actie) {
	parentURL := s.resourceURL("zaaktypen", zt.ID)
	ev := notifications.Event{
		Kanaal:       notifications.KanaalZaakTypen,
		HoofdObject:  parentURL,
		Resource:     resource,
		ResourceURL:  s.resourceURL(resource+"n", resourceID),
		Actie:        actie,
		Aanmaakdatum: requestcontext.Now(ctx).UTC(),
		Kenmerken: map[string]string{
			"catalogus": s.resourceURL("catalogussen", zt.CatalogusID),
		},
	}
	tx.AfterCommit(ctx, func(ctx context.Context) {
		s.notifier.Dispatch(ctx, ev)
	})
}

// auditAfterCommit records the mutation in the audit trail once it is durable.
func (s *Service) auditAfterCommit(ctx context.Context, action audit.Action, kind models.TypeKind, id, catalogusID uuid.UUID, detail string) {
	ev := audit.Event{
		OccurredAt:   requestcontext.Now(ctx),
		Action:       action,
		ResourceKind: string(kind),
		ResourceID:   id,
		CatalogusID:  catalogusID,
		RequestID:    requestcontext.RequestID(ctx),
		Detail:       detail,
	}
	tx.AfterCommit(ctx, func(context.Context) {
		s.auditor.Emit(ev)
	})
}

// CreateCatalogus registers a new catalogus namespace.
func (s *Service) CreateCatalogus(ctx context.Context, domein, rsin, naam string) (*models.Catalogus, error) {
	c, err := models.NewCatalogus(s.newID(), domein, rsin, naam, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateCatalogus(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetCatalogus(ctx context.Context, id uuid.UUID) (*models.Catalogus, error) {
	return s.store.GetCatalogus(ctx, id)
}

func (s *Service) ListCatalogussen(ctx context.Context) ([]*models.Catalogus, error) {
	return s.store.ListCatalogussen(ctx)
}
