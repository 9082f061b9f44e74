// Package models holds the catalogi type definitions (zaaktypen, besluittypen,
// informatieobjecttypen and their sub-resources) and their lifecycle invariants.
//
// A type definition starts as a concept (draft). Publishing freezes it:
// concept=false is a one-way transition, enforced here. Versioning happens by
// creating a new entity with the same omschrijving and a non-overlapping
// validity interval, never by reverting a published definition to draft.
package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "opencatalogi/pkg/domain-errors"
)

// TypeKind discriminates the three root type definitions.
type TypeKind string

const (
	KindZaakType             TypeKind = "zaaktype"
	KindBesluitType          TypeKind = "besluittype"
	KindInformatieObjectType TypeKind = "informatieobjecttype"
)

// TypeRef identifies a type definition in publish reporting and batch updates.
type TypeRef struct {
	Kind         TypeKind  `json:"kind"`
	ID           uuid.UUID `json:"id"`
	Omschrijving string    `json:"omschrijving"`
}

// Publishable is the lifecycle role shared by the three root type definitions.
type Publishable interface {
	Ref() TypeRef
	IsConcept() bool
	Validity() Geldigheid
	Catalogus() uuid.UUID
}

// VertrouwelijkheidAanduiding is the confidentiality level of cases or
// documents produced under a type definition.
type VertrouwelijkheidAanduiding string

const (
	VertrouwelijkheidOpenbaar      VertrouwelijkheidAanduiding = "openbaar"
	VertrouwelijkheidIntern        VertrouwelijkheidAanduiding = "intern"
	VertrouwelijkheidVertrouwelijk VertrouwelijkheidAanduiding = "vertrouwelijk"
	VertrouwelijkheidGeheim        VertrouwelijkheidAanduiding = "geheim"
)

// Catalogus is the namespace owning type definitions. Version-uniqueness of
// omschrijving + geldigheid is scoped per catalogus.
type Catalogus struct {
	ID        uuid.UUID `json:"id"`
	Domein    string    `json:"domein"`
	RSIN      string    `json:"rsin"`
	Naam      string    `json:"naam"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewCatalogus(id uuid.UUID, domein, rsin, naam string, now time.Time) (*Catalogus, error) {
	if domein == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "catalogus domein is required")
	}
	if rsin == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "catalogus rsin is required")
	}
	return &Catalogus{ID: id, Domein: domein, RSIN: rsin, Naam: naam, CreatedAt: now}, nil
}

var errAlreadyPublished = dErrors.New(dErrors.CodeInvariantViolation, "type definition is already published")

// publishState carries the shared concept/geldigheid lifecycle behaviour.
// Embedded by the three root type definitions.
type publishState struct {
	Concept    bool       `json:"concept"`
	Geldigheid Geldigheid `json:"geldigheid"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (p *publishState) IsConcept() bool      { return p.Concept }
func (p *publishState) Validity() Geldigheid { return p.Geldigheid }

// CanPublish checks the one-way transition. Publishing an already published
// definition is reported distinctly so callers can treat it as a no-op.
func (p *publishState) CanPublish() error {
	if !p.Concept {
		return errAlreadyPublished
	}
	return nil
}

// ApplyPublish freezes the definition. Call CanPublish first.
func (p *publishState) ApplyPublish(now time.Time) {
	p.Concept = false
	p.UpdatedAt = now
}

// IsAlreadyPublished reports whether err is the trivial already-published case.
func IsAlreadyPublished(err error) bool {
	return err == errAlreadyPublished
}
