package models

import (
	"github.com/google/uuid"

	dErrors "opencatalogi/pkg/domain-errors"
)

// Sub-resources are owned by their zaaktype: deleting the zaaktype cascades,
// and their draft/published state follows the parent. A zaaktype needs at
// least one statustype, one roltype and one resultaattype before it can be
// published.

// StatusType defines a status cases of the parent zaaktype move through.
type StatusType struct {
	ID           uuid.UUID `json:"id"`
	ZaakTypeID   uuid.UUID `json:"zaaktype"`
	Omschrijving string    `json:"omschrijving"`
	Volgnummer   int       `json:"volgnummer"`
}

func NewStatusType(id, zaaktypeID uuid.UUID, omschrijving string, volgnummer int) (*StatusType, error) {
	if omschrijving == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "statustype omschrijving is required")
	}
	if volgnummer < 1 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "statustype volgnummer must be positive")
	}
	return &StatusType{ID: id, ZaakTypeID: zaaktypeID, Omschrijving: omschrijving, Volgnummer: volgnummer}, nil
}

// RolType defines a role that participants can play in cases of the parent
// zaaktype.
type RolType struct {
	ID                   uuid.UUID `json:"id"`
	ZaakTypeID           uuid.UUID `json:"zaaktype"`
	Omschrijving         string    `json:"omschrijving"`
	OmschrijvingGeneriek string    `json:"omschrijvingGeneriek"`
}

func NewRolType(id, zaaktypeID uuid.UUID, omschrijving, generiek string) (*RolType, error) {
	if omschrijving == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "roltype omschrijving is required")
	}
	return &RolType{ID: id, ZaakTypeID: zaaktypeID, Omschrijving: omschrijving, OmschrijvingGeneriek: generiek}, nil
}

// ResultaatType defines a possible result of cases of the parent zaaktype.
type ResultaatType struct {
	ID                  uuid.UUID `json:"id"`
	ZaakTypeID          uuid.UUID `json:"zaaktype"`
	Omschrijving        string    `json:"omschrijving"`
	Selectielijstklasse string    `json:"selectielijstklasse"`
}

func NewResultaatType(id, zaaktypeID uuid.UUID, omschrijving, selectielijstklasse string) (*ResultaatType, error) {
	if omschrijving == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "resultaattype omschrijving is required")
	}
	return &ResultaatType{ID: id, ZaakTypeID: zaaktypeID, Omschrijving: omschrijving, Selectielijstklasse: selectielijstklasse}, nil
}

// ZaakTypeInformatieObjectType is the join between a zaaktype and an
// informatieobjecttype. The join row is owned by the zaaktype; the referenced
// informatieobjecttype is shared.
type ZaakTypeInformatieObjectType struct {
	ID                     uuid.UUID `json:"id"`
	ZaakTypeID             uuid.UUID `json:"zaaktype"`
	InformatieObjectTypeID uuid.UUID `json:"informatieobjecttype"`
	Volgnummer             int       `json:"volgnummer"`
	Richting               string    `json:"richting"`
}

func NewZaakTypeInformatieObjectType(id, zaaktypeID, iotID uuid.UUID, volgnummer int, richting string) (*ZaakTypeInformatieObjectType, error) {
	if volgnummer < 1 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "volgnummer must be positive")
	}
	return &ZaakTypeInformatieObjectType{
		ID:                     id,
		ZaakTypeID:             zaaktypeID,
		InformatieObjectTypeID: iotID,
		Volgnummer:             volgnummer,
		Richting:               richting,
	}, nil
}
