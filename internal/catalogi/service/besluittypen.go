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

// CreateBesluitTypeInput carries the writable besluittype fields.
type CreateBesluitTypeInput struct {
	CatalogusID         uuid.UUID
	Omschrijving        string
	Publicatieindicatie bool
	ZaakTypeIDs         []uuid.UUID
	Geldigheid          models.Geldigheid
}

// CreateBesluitType stores a new draft besluittype. Every referenced
// zaaktype must exist; the relation itself is many-to-many.
func (s *Service) CreateBesluitType(ctx context.Context, in CreateBesluitTypeInput) (*models.BesluitType, error) {
	bt, err := models.NewBesluitType(s.newID(), in.CatalogusID, in.Omschrijving, in.Publicatieindicatie, in.ZaakTypeIDs, in.Geldigheid, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.GetCatalogus(ctx, in.CatalogusID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeBadRequest, "catalogus does not exist")
		}
		for _, ztID := range in.ZaakTypeIDs {
			if _, err := s.store.GetZaakType(ctx, ztID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeBadRequest, "related zaaktype does not exist")
			}
		}
		if err := s.store.CreateBesluitType(ctx, bt); err != nil {
			return err
		}
		s.notifyAfterCommit(ctx, bt, notifications.ActieCreate)
		s.auditAfterCommit(ctx, audit.ActionCreate, models.KindBesluitType, bt.ID, bt.CatalogusID, "")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bt, nil
}

func (s *Service) GetBesluitType(ctx context.Context, id uuid.UUID) (*models.BesluitType, error) {
	return s.store.GetBesluitType(ctx, id)
}

func (s *Service) ListBesluitTypen(ctx context.Context, catalogusID uuid.UUID) ([]*models.BesluitType, error) {
	return s.store.ListBesluitTypen(ctx, catalogusID)
}

// UpdateBesluitType replaces the writable fields of a draft besluittype.
func (s *Service) UpdateBesluitType(ctx context.Context, id uuid.UUID, in CreateBesluitTypeInput) (*models.BesluitType, error) {
	var updated *models.BesluitType
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		bt, err := s.store.GetBesluitType(ctx, id)
		if err != nil {
			return err
		}
		if !bt.IsConcept() {
			return dErrors.New(dErrors.CodeInvariantViolation, "published besluittype cannot be modified")
		}
		if err := models.ValidateOmschrijving(in.Omschrijving); err != nil {
			return err
		}
		if in.Geldigheid.Begin.IsZero() {
			return dErrors.New(dErrors.CodeBadRequest, "begin geldigheid is required")
		}
		for _, ztID := range in.ZaakTypeIDs {
			if _, err := s.store.GetZaakType(ctx, ztID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeBadRequest, "related zaaktype does not exist")
			}
		}

		snapshot := bt.Clone()
		bt.Omschrijving = in.Omschrijving
		bt.Publicatieindicatie = in.Publicatieindicatie
		bt.ZaakTypeIDs = in.ZaakTypeIDs
		bt.Geldigheid = in.Geldigheid

		if bt.NotificationEqual(snapshot) {
			updated = bt
			return nil
		}

		bt.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.UpdateBesluitType(ctx, bt); err != nil {
			return err
		}
		s.notifyAfterCommit(ctx, bt, notifications.ActieUpdate)
		s.auditAfterCommit(ctx, audit.ActionUpdate, models.KindBesluitType, bt.ID, bt.CatalogusID, "")
		updated = bt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteBesluitType removes a draft besluittype. Related zaaktypen survive.
func (s *Service) DeleteBesluitType(ctx context.Context, id uuid.UUID) error {
	return s.store.RunInTx(ctx, func(ctx context.Context) error {
		bt, err := s.store.GetBesluitType(ctx, id)
		if err != nil {
			return err
		}
		if !bt.IsConcept() {
			return dErrors.New(dErrors.CodeInvariantViolation, "published besluittype cannot be deleted")
		}
		if err := s.store.DeleteBesluitType(ctx, id); err != nil {
			return err
		}
		s.notifyAfterCommit(ctx, bt, notifications.ActieDestroy)
		s.auditAfterCommit(ctx, audit.ActionDelete, models.KindBesluitType, bt.ID, bt.CatalogusID, "")
		return nil
	})
}
