package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"opencatalogi/internal/catalogi/models"
	"opencatalogi/internal/notifications"
	"opencatalogi/internal/platform/metrics"
	dErrors "opencatalogi/pkg/domain-errors"
	"opencatalogi/pkg/platform/audit"
	"opencatalogi/pkg/platform/sentinel"
	"opencatalogi/pkg/requestcontext"
)

// PublishResult reports what a publish request actually did.
type PublishResult struct {
	// Published lists every definition flipped to published in this request,
	// the requested one first.
	Published []models.TypeRef `json:"published"`
	// AutoPublished lists the related drafts the cascade published alongside.
	AutoPublished []models.TypeRef `json:"autoPublished,omitempty"`
	// AlreadyPublished marks the no-op case: the definition was published
	// before this request. No state changed and no events were sent.
	AlreadyPublished bool `json:"alreadyPublished,omitempty"`
	// Report is a human-readable summary of the cascade, shown to admins.
	Report string `json:"report,omitempty"`
}

// PublishZaakType validates and publishes a zaaktype.
//
// With autoPublish, related draft besluittypen and informatieobjecttypen are
// published in the same transaction; without it, any related draft blocks
// the publish. Validation treats the whole batch as publishing at once, and
// any validation failure on any member rolls back the entire batch.
func (s *Service) PublishZaakType(ctx context.Context, id uuid.UUID, autoPublish bool) (*PublishResult, error) {
	ctx, span := tracer.Start(ctx, "catalogi.publish_zaaktype")
	span.SetAttributes(attribute.String("zaaktype.id", id.String()), attribute.Bool("auto_publish", autoPublish))
	defer span.End()

	result := &PublishResult{}
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		zt, err := s.store.GetZaakTypeForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := zt.CanPublish(); err != nil {
			if models.IsAlreadyPublished(err) {
				result.AlreadyPublished = true
				result.Published = []models.TypeRef{zt.Ref()}
				return nil
			}
			return err
		}

		counts, err := s.store.CountZaakTypeChildren(ctx, id)
		if err != nil {
			return err
		}
		if err := validateZaakTypeChildren(counts); err != nil {
			return err
		}

		relatedBT, err := s.store.ListRelatedBesluitTypen(ctx, id)
		if err != nil {
			return err
		}
		relatedIOT, err := s.store.ListRelatedInformatieObjectTypen(ctx, id)
		if err != nil {
			return err
		}
		related := make([]models.Publishable, 0, len(relatedBT)+len(relatedIOT))
		for _, bt := range relatedBT {
			related = append(related, bt)
		}
		for _, iot := range relatedIOT {
			related = append(related, iot)
		}

		batch := []models.Publishable{zt}
		if autoPublish {
			for _, dep := range related {
				if !dep.IsConcept() {
					continue
				}
				// Re-read under lock so a concurrent mutation of the draft
				// cannot slide in between list and publish.
				locked, err := s.getForUpdate(ctx, dep.Ref())
				if err != nil {
					return err
				}
				if !locked.IsConcept() {
					continue
				}
				batch = append(batch, locked)
				result.AutoPublished = append(result.AutoPublished, locked.Ref())
			}
		}

		batchSet := make(map[models.TypeRef]bool, len(batch))
		for _, member := range batch {
			batchSet[member.Ref()] = true
		}

		if !autoPublish {
			if err := validateDependenciesPublished(related, batchSet); err != nil {
				return err
			}
		}

		for _, member := range batch {
			ref := member.Ref()
			family, err := s.store.ListVersionFamily(ctx, ref.Kind, member.Catalogus(), ref.Omschrijving)
			if err != nil {
				return err
			}
			if err := validateNoOverlap(publishCandidate{entity: member, family: family}, batchSet); err != nil {
				return err
			}
		}

		now := requestcontext.Now(ctx)
		refs := make([]models.TypeRef, 0, len(batch))
		for _, member := range batch {
			refs = append(refs, member.Ref())
		}
		if err := s.store.MarkPublished(ctx, refs, now); err != nil {
			return err
		}
		result.Published = refs
		result.Report = cascadeReport(result.AutoPublished)

		for _, member := range batch {
			s.notifyAfterCommit(ctx, member, notifications.ActieUpdate)
		}
		s.auditAfterCommit(ctx, audit.ActionPublish, models.KindZaakType, zt.ID, zt.CatalogusID, result.Report)
		return nil
	})
	s.recordPublish(models.KindZaakType, err, result)
	if err != nil {
		return nil, mapConcurrencyError(err)
	}
	return result, nil
}

// PublishBesluitType publishes a single besluittype after checking the
// validity-overlap invariant within its version family.
func (s *Service) PublishBesluitType(ctx context.Context, id uuid.UUID) (*PublishResult, error) {
	result := &PublishResult{}
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		bt, err := s.store.GetBesluitTypeForUpdate(ctx, id)
		if err != nil {
			return err
		}
		return s.publishSingle(ctx, bt, models.KindBesluitType, bt.CatalogusID, result)
	})
	s.recordPublish(models.KindBesluitType, err, result)
	if err != nil {
		return nil, mapConcurrencyError(err)
	}
	return result, nil
}

// PublishInformatieObjectType publishes a single informatieobjecttype after
// checking the validity-overlap invariant within its version family.
func (s *Service) PublishInformatieObjectType(ctx context.Context, id uuid.UUID) (*PublishResult, error) {
	result := &PublishResult{}
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		iot, err := s.store.GetInformatieObjectTypeForUpdate(ctx, id)
		if err != nil {
			return err
		}
		return s.publishSingle(ctx, iot, models.KindInformatieObjectType, iot.CatalogusID, result)
	})
	s.recordPublish(models.KindInformatieObjectType, err, result)
	if err != nil {
		return nil, mapConcurrencyError(err)
	}
	return result, nil
}

func (s *Service) publishSingle(ctx context.Context, entity models.Publishable, kind models.TypeKind, catalogusID uuid.UUID, result *PublishResult) error {
	type canPublisher interface{ CanPublish() error }
	if err := entity.(canPublisher).CanPublish(); err != nil {
		if models.IsAlreadyPublished(err) {
			result.AlreadyPublished = true
			result.Published = []models.TypeRef{entity.Ref()}
			return nil
		}
		return err
	}

	ref := entity.Ref()
	batchSet := map[models.TypeRef]bool{ref: true}
	family, err := s.store.ListVersionFamily(ctx, ref.Kind, entity.Catalogus(), ref.Omschrijving)
	if err != nil {
		return err
	}
	if err := validateNoOverlap(publishCandidate{entity: entity, family: family}, batchSet); err != nil {
		return err
	}

	now := requestcontext.Now(ctx)
	if err := s.store.MarkPublished(ctx, []models.TypeRef{ref}, now); err != nil {
		return err
	}
	result.Published = []models.TypeRef{ref}

	s.notifyAfterCommit(ctx, entity, notifications.ActieUpdate)
	s.auditAfterCommit(ctx, audit.ActionPublish, kind, ref.ID, catalogusID, "")
	return nil
}

func (s *Service) getForUpdate(ctx context.Context, ref models.TypeRef) (models.Publishable, error) {
	switch ref.Kind {
	case models.KindBesluitType:
		return s.store.GetBesluitTypeForUpdate(ctx, ref.ID)
	case models.KindInformatieObjectType:
		return s.store.GetInformatieObjectTypeForUpdate(ctx, ref.ID)
	default:
		return s.store.GetZaakTypeForUpdate(ctx, ref.ID)
	}
}

func (s *Service) recordPublish(kind models.TypeKind, err error, result *PublishResult) {
	outcome := "success"
	switch {
	case err != nil:
		outcome = "failure"
	case result.AlreadyPublished:
		outcome = "noop"
	}
	metrics.PublishesTotal.WithLabelValues(string(kind), outcome).Inc()
}

// cascadeReport summarizes what the cascade auto-published, grouped by kind.
func cascadeReport(autoPublished []models.TypeRef) string {
	if len(autoPublished) == 0 {
		return ""
	}
	byKind := map[models.TypeKind][]string{}
	for _, ref := range autoPublished {
		byKind[ref.Kind] = append(byKind[ref.Kind], ref.Omschrijving)
	}
	var parts []string
	if names := byKind[models.KindBesluitType]; len(names) > 0 {
		parts = append(parts, fmt.Sprintf("Auto-published related besluittypen: %s", strings.Join(names, ", ")))
	}
	if names := byKind[models.KindInformatieObjectType]; len(names) > 0 {
		parts = append(parts, fmt.Sprintf("Auto-published related informatieobjecttypen: %s", strings.Join(names, ", ")))
	}
	return strings.Join(parts, ". ")
}

// mapConcurrencyError turns a serialization failure from the store into a
// retryable domain error, so the API can tell clients to try again instead
// of reporting an internal error.
func mapConcurrencyError(err error) error {
	if errors.Is(err, sentinel.ErrSerialization) {
		return dErrors.Wrap(err, dErrors.CodeRetryable, "concurrent publish conflict, retry the request")
	}
	return err
}
