package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "opencatalogi/pkg/domain-errors"
)

// ZaakType defines a case type: which statuses, roles and results cases of
// this type can have, and which document and decision types relate to it.
//
// Invariants:
//   - Omschrijving is non-empty and at most 80 characters
//   - published versions with the same omschrijving in the same catalogus
//     must not have overlapping geldigheid (checked at publish time)
//   - Concept=false is a one-way transition
type ZaakType struct {
	ID                          uuid.UUID                   `json:"id"`
	CatalogusID                 uuid.UUID                   `json:"catalogus"`
	Identificatie               string                      `json:"identificatie"`
	Omschrijving                string                      `json:"omschrijving"`
	Doel                        string                      `json:"doel"`
	Vertrouwelijkheidaanduiding VertrouwelijkheidAanduiding `json:"vertrouwelijkheidaanduiding"`
	publishState
}

func NewZaakType(id uuid.UUID, catalogusID uuid.UUID, identificatie, omschrijving, doel string, va VertrouwelijkheidAanduiding, geldigheid Geldigheid, now time.Time) (*ZaakType, error) {
	if err := validateOmschrijving(omschrijving); err != nil {
		return nil, err
	}
	if geldigheid.Begin.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "begin geldigheid is required")
	}
	return &ZaakType{
		ID:                          id,
		CatalogusID:                 catalogusID,
		Identificatie:               identificatie,
		Omschrijving:                omschrijving,
		Doel:                        doel,
		Vertrouwelijkheidaanduiding: va,
		publishState: publishState{
			Concept:    true,
			Geldigheid: geldigheid,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}, nil
}

func (z *ZaakType) Ref() TypeRef {
	return TypeRef{Kind: KindZaakType, ID: z.ID, Omschrijving: z.Omschrijving}
}

func (z *ZaakType) Catalogus() uuid.UUID { return z.CatalogusID }

// NotificationEqual reports whether the notification-relevant fields of two
// versions of this zaaktype are identical. Used to suppress events for
// submissions that change nothing.
func (z *ZaakType) NotificationEqual(other *ZaakType) bool {
	if other == nil {
		return false
	}
	return z.CatalogusID == other.CatalogusID &&
		z.Identificatie == other.Identificatie &&
		z.Omschrijving == other.Omschrijving &&
		z.Doel == other.Doel &&
		z.Vertrouwelijkheidaanduiding == other.Vertrouwelijkheidaanduiding &&
		z.Concept == other.Concept &&
		geldigheidEqual(z.Geldigheid, other.Geldigheid)
}

// Clone returns a copy safe to keep as a pre-mutation snapshot.
func (z *ZaakType) Clone() *ZaakType {
	cp := *z
	if z.Geldigheid.Einde != nil {
		e := *z.Geldigheid.Einde
		cp.Geldigheid.Einde = &e
	}
	return &cp
}

// ValidateOmschrijving checks the shared omschrijving constraints. Update
// paths call it directly; the constructors call it on create.
func ValidateOmschrijving(omschrijving string) error {
	return validateOmschrijving(omschrijving)
}

func validateOmschrijving(omschrijving string) error {
	if omschrijving == "" {
		return dErrors.New(dErrors.CodeBadRequest, "omschrijving is required")
	}
	if len(omschrijving) > 80 {
		return dErrors.New(dErrors.CodeBadRequest, "omschrijving must be 80 characters or less")
	}
	return nil
}

func geldigheidEqual(a, b Geldigheid) bool {
	if !a.Begin.Equal(b.Begin) {
		return false
	}
	switch {
	case a.Einde == nil && b.Einde == nil:
		return true
	case a.Einde == nil || b.Einde == nil:
		return false
	default:
		return a.Einde.Equal(*b.Einde)
	}
}
