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

// CreateZaakTypeInput carries the writable zaaktype fields.
type CreateZaakTypeInput struct {
	CatalogusID                 uuid.UUID
	Identificatie               string
	Omschrijving                string
	Doel                        string
	Vertrouwelijkheidaanduiding models.VertrouwelijkheidAanduiding
	Geldigheid                  models.Geldigheid
}

// CreateZaakType stores a new draft zaaktype and queues a create event.
func (s *Service) CreateZaakType(ctx context.Context, in CreateZaakTypeInput) (*models.ZaakType, error) {
	va := in.Vertrouwelijkheidaanduiding
	if va == "" {
		va = models.VertrouwelijkheidOpenbaar
	}
	zt, err := models.NewZaakType(s.newID(), in.CatalogusID, in.Identificatie, in.Omschrijving, in.Doel, va, in.Geldigheid, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.GetCatalogus(ctx, in.CatalogusID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeBadRequest, "catalogus does not exist")
		}
		if err := s.store.CreateZaakType(ctx, zt); err != nil {
			return err
		}
		s.notifyAfterCommit(ctx, zt, notifications.ActieCreate)
		s.auditAfterCommit(ctx, audit.ActionCreate, models.KindZaakType, zt.ID, zt.CatalogusID, "")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return zt, nil
}

func (s *Service) GetZaakType(ctx context.Context, id uuid.UUID) (*models.ZaakType, error) {
	return s.store.GetZaakType(ctx, id)
}

func (s *Service) ListZaakTypen(ctx context.Context, catalogusID uuid.UUID) ([]*models.ZaakType, error) {
	return s.store.ListZaakTypen(ctx, catalogusID)
}

// UpdateZaakType replaces the writable fields of a draft. Published
// definitions are frozen. A submission that changes nothing is accepted but
// produces no notification.
func (s *Service) UpdateZaakType(ctx context.Context, id uuid.UUID, in CreateZaakTypeInput) (*models.ZaakType, error) {
	var updated *models.ZaakType
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		zt, err := s.store.GetZaakType(ctx, id)
		if err != nil {
			return err
		}
		if !zt.IsConcept() {
			return dErrors.New(dErrors.CodeInvariantViolation, "published zaaktype cannot be modified")
		}
		if err := models.ValidateOmschrijving(in.Omschrijving); err != nil {
			return err
		}
		if in.Geldigheid.Begin.IsZero() {
			return dErrors.New(dErrors.CodeBadRequest, "begin geldigheid is required")
		}

		snapshot := zt.Clone()
		zt.Identificatie = in.Identificatie
		zt.Omschrijving = in.Omschrijving
		zt.Doel = in.Doel
		if in.Vertrouwelijkheidaanduiding != "" {
			zt.Vertrouwelijkheidaanduiding = in.Vertrouwelijkheidaanduiding
		}
		zt.Geldigheid = in.Geldigheid

		if zt.NotificationEqual(snapshot) {
			updated = zt
			return nil
		}

		zt.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.UpdateZaakType(ctx, zt); err != nil {
			return err
		}
		s.notifyAfterCommit(ctx, zt, notifications.ActieUpdate)
		s.auditAfterCommit(ctx, audit.ActionUpdate, models.KindZaakType, zt.ID, zt.CatalogusID, "")
		updated = zt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteZaakType removes a draft and its owned sub-resources. Published
// definitions cannot be deleted.
func (s *Service) DeleteZaakType(ctx context.Context, id uuid.UUID) error {
	return s.store.RunInTx(ctx, func(ctx context.Context) error {
		zt, err := s.store.GetZaakType(ctx, id)
		if err != nil {
			return err
		}
		if !zt.IsConcept() {
			return dErrors.New(dErrors.CodeInvariantViolation, "published zaaktype cannot be deleted")
		}
		if err := s.store.DeleteZaakType(ctx, id); err != nil {
			return err
		}
		s.notifyAfterCommit(ctx, zt, notifications.ActieDestroy)
		s.auditAfterCommit(ctx, audit.ActionDelete, models.KindZaakType, zt.ID, zt.CatalogusID, "")
		return nil
	})
}
