package service

import (
	"context"

	"github.com/google/uuid"

	"opencatalogi/internal/catalogi/models"
	"opencatalogi/internal/notifications"
	dErrors "opencatalogi/pkg/domain-errors"
	"opencatalogi/pkg/platform/audit"
	"opencatalogi/pkg/requestcontext"
)

// CreateInformatieObjectTypeInput carries the writable fields.
type CreateInformatieObjectTypeInput struct {
	CatalogusID                 uuid.UUID
	Omschrijving                string
	Vertrouwelijkheidaanduiding models.VertrouwelijkheidAanduiding
	Geldigheid                  models.Geldigheid
}

func (s *Service) CreateInformatieObjectType(ctx context.Context, in CreateInformatieObjectTypeInput) (*models.InformatieObjectType, error) {
	va := in.Vertrouwelijkheidaanduiding
	if va == "" {
		va = models.VertrouwelijkheidOpenbaar
	}
	iot, err := models.NewInformatieObjectType(s.newID(), in.CatalogusID, in.Omschrijving, va, in.Geldigheid, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.GetCatalogus(ctx, in.CatalogusID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeBadRequest, "catalogus does not exist")
		}
		if err := s.store.CreateInformatieObjectType(ctx, iot); err != nil {
			return err
		}
		s.notifyAfterCommit(ctx, iot, notifications.ActieCreate)
		s.auditAfterCommit(ctx, audit.ActionCreate, models.KindInformatieObjectType, iot.ID, iot.CatalogusID, "")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return iot, nil
}

func (s *Service) GetInformatieObjectType(ctx context.Context, id uuid.UUID) (*models.InformatieObjectType, error) {
	return s.store.GetInformatieObjectType(ctx, id)
}

func (s *Service) ListInformatieObjectTypen(ctx context.Context, catalogusID uuid.UUID) ([]*models.InformatieObjectType, error) {
	return s.store.ListInformatieObjectTypen(ctx, catalogusID)
}

func (s *Service) UpdateInformatieObjectType(ctx context.Context, id uuid.UUID, in CreateInformatieObjectTypeInput) (*models.InformatieObjectType, error) {
	var updated *models.InformatieObjectType
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		iot, err := s.store.GetInformatieObjectType(ctx, id)
		if err != nil {
			return err
		}
		if !iot.IsConcept() {
			return dErrors.New(dErrors.CodeInvariantViolation, "published informatieobjecttype cannot be modified")
		}
		if err := models.ValidateOmschrijving(in.Omschrijving); err != nil {
			return err
		}
		if in.Geldigheid.Begin.IsZero() {
			return dErrors.New(dErrors.CodeBadRequest, "begin geldigheid is required")
		}

		snapshot := iot.Clone()
		iot.Omschrijving = in.Omschrijving
		if in.Vertrouwelijkheidaanduiding != "" {
			iot.Vertrouwelijkheidaanduiding = in.Vertrouwelijkheidaanduiding
		}
		iot.Geldigheid = in.Geldigheid

		if iot.NotificationEqual(snapshot) {
			updated = iot
			return nil
		}

		iot.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.UpdateInformatieObjectType(ctx, iot); err != nil {
			return err
		}
		s.notifyAfterCommit(ctx, iot, notifications.ActieUpdate)
		s.auditAfterCommit(ctx, audit.ActionUpdate, models.KindInformatieObjectType, iot.ID, iot.CatalogusID, "")
		updated = iot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) DeleteInformatieObjectType(ctx context.Context, id uuid.UUID) error {
	return s.store.RunInTx(ctx, func(ctx context.Context) error {
		iot, err := s.store.GetInformatieObjectType(ctx, id)
		if err != nil {
			return err
		}
		if !iot.IsConcept() {
			return dErrors.New(dErrors.CodeInvariantViolation, "published informatieobjecttype cannot be deleted")
		}
		if err := s.store.DeleteInformatieObjectType(ctx, id); err != nil {
			return err
		}
		s.notifyAfterCommit(ctx, iot, notifications.ActieDestroy)
		s.auditAfterCommit(ctx, audit.ActionDelete, models.KindInformatieObjectType, iot.ID, iot.CatalogusID, "")
		return nil
	})
}
