package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "opencatalogi/pkg/domain-errors"
)

// InformatieObjectType defines a document type. Zaaktypen reference it through
// the ZaakTypeInformatieObjectType join; the reference is shared, not owned.
type InformatieObjectType struct {
	ID                          uuid.UUID                   `json:"id"`
	CatalogusID                 uuid.UUID                   `json:"catalogus"`
	Omschrijving                string                      `json:"omschrijving"`
	Vertrouwelijkheidaanduiding VertrouwelijkheidAanduiding `json:"vertrouwelijkheidaanduiding"`
	publishState
}

func NewInformatieObjectType(id uuid.UUID, catalogusID uuid.UUID, omschrijving string, va VertrouwelijkheidAanduiding, geldigheid Geldigheid, now time.Time) (*InformatieObjectType, error) {
	if err := validateOmschrijving(omschrijving); err != nil {
		return nil, err
	}
	if geldigheid.Begin.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "begin geldigheid is required")
	}
	return &InformatieObjectType{
		ID:                          id,
		CatalogusID:                 catalogusID,
		Omschrijving:                omschrijving,
		Vertrouwelijkheidaanduiding: va,
		publishState: publishState{
			Concept:    true,
			Geldigheid: geldigheid,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}, nil
}

func (i *InformatieObjectType) Ref() TypeRef {
	return TypeRef{Kind: KindInformatieObjectType, ID: i.ID, Omschrijving: i.Omschrijving}
}

func (i *InformatieObjectType) Catalogus() uuid.UUID { return i.CatalogusID }

// NotificationEqual reports whether the notification-relevant fields match.
func (i *InformatieObjectType) NotificationEqual(other *InformatieObjectType) bool {
	if other == nil {
		return false
	}
	return i.CatalogusID == other.CatalogusID &&
		i.Omschrijving == other.Omschrijving &&
		i.Vertrouwelijkheidaanduiding == other.Vertrouwelijkheidaanduiding &&
		i.Concept == other.Concept &&
		geldigheidEqual(i.Geldigheid, other.Geldigheid)
}

// Clone returns a copy safe to keep as a pre-mutation snapshot.
func (i *InformatieObjectType) Clone() *InformatieObjectType {
	cp := *i
	if i.Geldigheid.Einde != nil {
		e := *i.Geldigheid.Einde
		cp.Geldigheid.Einde = &e
	}
	return &cp
}
