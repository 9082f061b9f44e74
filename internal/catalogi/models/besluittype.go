package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "opencatalogi/pkg/domain-errors"
)

// BesluitType defines a decision type. It relates to zaaktypen many-to-many:
// deleting either side leaves the other intact.
type BesluitType struct {
	ID                  uuid.UUID   `json:"id"`
	CatalogusID         uuid.UUID   `json:"catalogus"`
	Omschrijving        string      `json:"omschrijving"`
	Publicatieindicatie bool        `json:"publicatieindicatie"`
	ZaakTypeIDs         []uuid.UUID `json:"zaaktypen"`
	publishState
}

func NewBesluitType(id uuid.UUID, catalogusID uuid.UUID, omschrijving string, publicatieindicatie bool, zaaktypen []uuid.UUID, geldigheid Geldigheid, now time.Time) (*BesluitType, error) {
	if err := validateOmschrijving(omschrijving); err != nil {
		return nil, err
	}
	if geldigheid.Begin.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "begin geldigheid is required")
	}
	return &BesluitType{
		ID:                  id,
		CatalogusID:         catalogusID,
		Omschrijving:        omschrijving,
		Publicatieindicatie: publicatieindicatie,
		ZaakTypeIDs:         zaaktypen,
		publishState: publishState{
			Concept:    true,
			Geldigheid: geldigheid,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}, nil
}

func (b *BesluitType) Ref() TypeRef {
	return TypeRef{Kind: KindBesluitType, ID: b.ID, Omschrijving: b.Omschrijving}
}

func (b *BesluitType) Catalogus() uuid.UUID { return b.CatalogusID }

// NotificationEqual reports whether the notification-relevant fields match.
func (b *BesluitType) NotificationEqual(other *BesluitType) bool {
	if other == nil {
		return false
	}
	if len(b.ZaakTypeIDs) != len(other.ZaakTypeIDs) {
		return false
	}
	for i := range b.ZaakTypeIDs {
		if b.ZaakTypeIDs[i] != other.ZaakTypeIDs[i] {
			return false
		}
	}
	return b.CatalogusID == other.CatalogusID &&
		b.Omschrijving == other.Omschrijving &&
		b.Publicatieindicatie == other.Publicatieindicatie &&
		b.Concept == other.Concept &&
		geldigheidEqual(b.Geldigheid, other.Geldigheid)
}

// Clone returns a copy safe to keep as a pre-mutation snapshot.
func (b *BesluitType) Clone() *BesluitType {
	cp := *b
	cp.ZaakTypeIDs = append([]uuid.UUID(nil), b.ZaakTypeIDs...)
	if b.Geldigheid.Einde != nil {
		e := *b.Geldigheid.Einde
		cp.Geldigheid.Einde = &e
	}
	return &cp
}
