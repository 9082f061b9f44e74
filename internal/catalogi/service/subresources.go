package service

import (
	"context"

	"github.com/google/uuid"

	"opencatalogi/internal/catalogi/models"
	"opencatalogi/internal/notifications"
	dErrors "opencatalogi/pkg/domain-errors"
)

// getDraftZaakType loads the parent and rejects the mutation when it is
// already published. Sub-resources can only change while the parent is a
// draft; after publishing the whole definition is frozen.
func (s *Service) getDraftZaakType(ctx context.Context, zaaktypeID uuid.UUID) (*models.ZaakType, error) {
	zt, err := s.store.GetZaakType(ctx, zaaktypeID)
	if err != nil {
		return nil, err
	}
	if !zt.IsConcept() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "published zaaktype cannot be modified")
	}
	return zt, nil
}

func (s *Service) CreateStatusType(ctx context.Context, zaaktypeID uuid.UUID, omschrijving string, volgnummer int) (*models.StatusType, error) {
	st, err := models.NewStatusType(s.newID(), zaaktypeID, omschrijving, volgnummer)
	if err != nil {
		return nil, err
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		zt, err := s.getDraftZaakType(ctx, zaaktypeID)
		if err != nil {
			return err
		}
		if err := s.store.CreateStatusType(ctx, st); err != nil {
			return err
		}
		s.notifySubResourceAfterCommit(ctx, zt, "statustype", st.ID, notifications.ActieCreate)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) ListStatusTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.StatusType, error) {
	return s.store.ListStatusTypen(ctx, zaaktypeID)
}

func (s *Service) CreateRolType(ctx context.Context, zaaktypeID uuid.UUID, omschrijving, generiek string) (*models.RolType, error) {
	rt, err := models.NewRolType(s.newID(), zaaktypeID, omschrijving, generiek)
	if err != nil {
		return nil, err
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		zt, err := s.getDraftZaakType(ctx, zaaktypeID)
		if err != nil {
			return err
		}
		if err := s.store.CreateRolType(ctx, rt); err != nil {
			return err
		}
		s.notifySubResourceAfterCommit(ctx, zt, "roltype", rt.ID, notifications.ActieCreate)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *Service) ListRolTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.RolType, error) {
	return s.store.ListRolTypen(ctx, zaaktypeID)
}

func (s *Service) CreateResultaatType(ctx context.Context, zaaktypeID uuid.UUID, omschrijving, selectielijstklasse string) (*models.ResultaatType, error) {
	rt, err := models.NewResultaatType(s.newID(), zaaktypeID, omschrijving, selectielijstklasse)
	if err != nil {
		return nil, err
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		zt, err := s.getDraftZaakType(ctx, zaaktypeID)
		if err != nil {
			return err
		}
		if err := s.store.CreateResultaatType(ctx, rt); err != nil {
			return err
		}
		s.notifySubResourceAfterCommit(ctx, zt, "resultaattype", rt.ID, notifications.ActieCreate)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *Service) ListResultaatTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.ResultaatType, error) {
	return s.store.ListResultaatTypen(ctx, zaaktypeID)
}

func (s *Service) CreateZaakTypeInformatieObjectType(ctx context.Context, zaaktypeID, iotID uuid.UUID, volgnummer int, richting string) (*models.ZaakTypeInformatieObjectType, error) {
	j, err := models.NewZaakTypeInformatieObjectType(s.newID(), zaaktypeID, iotID, volgnummer, richting)
	if err != nil {
		return nil, err
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		zt, err := s.getDraftZaakType(ctx, zaaktypeID)
		if err != nil {
			return err
		}
		if _, err := s.store.GetInformatieObjectType(ctx, iotID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeBadRequest, "informatieobjecttype does not exist")
		}
		if err := s.store.CreateZaakTypeInformatieObjectType(ctx, j); err != nil {
			return err
		}
		s.notifySubResourceAfterCommit(ctx, zt, "zaaktypeinformatieobjecttype", j.ID, notifications.ActieCreate)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (s *Service) ListZaakTypeInformatieObjectTypen(ctx context.Context, zaaktypeID uuid.UUID) ([]*models.ZaakTypeInformatieObjectType, error) {
	return s.store.ListZaakTypeInformatieObjectTypen(ctx, zaaktypeID)
}
