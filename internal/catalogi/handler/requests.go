package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"opencatalogi/internal/catalogi/models"
	"opencatalogi/internal/catalogi/service"
	dErrors "opencatalogi/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid "+name)
	}
	return id, nil
}

func queryUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, name+" query parameter is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid "+name)
	}
	return id, nil
}

// geldigheidRequest carries validity dates in ISO date form. The end date is
// exclusive and may be omitted for open-ended validity.
type geldigheidRequest struct {
	Begin string  `json:"beginGeldigheid"`
	Einde *string `json:"eindeGeldigheid,omitempty"`
}

func (g geldigheidRequest) parse() (models.Geldigheid, error) {
	if g.Begin == "" {
		return models.Geldigheid{}, dErrors.New(dErrors.CodeBadRequest, "beginGeldigheid is required")
	}
	begin, err := time.Parse(dateLayout, g.Begin)
	if err != nil {
		return models.Geldigheid{}, dErrors.New(dErrors.CodeBadRequest, "beginGeldigheid must be a yyyy-mm-dd date")
	}
	out := models.Geldigheid{Begin: begin}
	if g.Einde != nil {
		einde, err := time.Parse(dateLayout, *g.Einde)
		if err != nil {
			return models.Geldigheid{}, dErrors.New(dErrors.CodeBadRequest, "eindeGeldigheid must be a yyyy-mm-dd date")
		}
		out.Einde = &einde
	}
	return out, nil
}

type catalogusRequest struct {
	Domein string `json:"domein"`
	RSIN   string `json:"rsin"`
	Naam   string `json:"naam"`
}

type zaaktypeRequest struct {
	Catalogus                   uuid.UUID `json:"catalogus"`
	Identificatie               string    `json:"identificatie"`
	Omschrijving                string    `json:"omschrijving"`
	Doel                        string    `json:"doel"`
	Vertrouwelijkheidaanduiding string    `json:"vertrouwelijkheidaanduiding"`
	geldigheidRequest
}

func (z zaaktypeRequest) toInput() (service.CreateZaakTypeInput, error) {
	geldigheid, err := z.parse()
	if err != nil {
		return service.CreateZaakTypeInput{}, err
	}
	return service.CreateZaakTypeInput{
		CatalogusID:                 z.Catalogus,
		Identificatie:               z.Identificatie,
		Omschrijving:                z.Omschrijving,
		Doel:                        z.Doel,
		Vertrouwelijkheidaanduiding: models.VertrouwelijkheidAanduiding(z.Vertrouwelijkheidaanduiding),
		Geldigheid:                  geldigheid,
	}, nil
}

type besluittypeRequest struct {
	Catalogus           uuid.UUID   `json:"catalogus"`
	Omschrijving        string      `json:"omschrijving"`
	Publicatieindicatie bool        `json:"publicatieindicatie"`
	ZaakTypen           []uuid.UUID `json:"zaaktypen"`
	geldigheidRequest
}

func (b besluittypeRequest) toInput() (service.CreateBesluitTypeInput, error) {
	geldigheid, err := b.parse()
	if err != nil {
		return service.CreateBesluitTypeInput{}, err
	}
	return service.CreateBesluitTypeInput{
		CatalogusID:         b.Catalogus,
		Omschrijving:        b.Omschrijving,
		Publicatieindicatie: b.Publicatieindicatie,
		ZaakTypeIDs:         b.ZaakTypen,
		Geldigheid:          geldigheid,
	}, nil
}

type informatieobjecttypeRequest struct {
	Catalogus                   uuid.UUID `json:"catalogus"`
	Omschrijving                string    `json:"omschrijving"`
	Vertrouwelijkheidaanduiding string    `json:"vertrouwelijkheidaanduiding"`
	geldigheidRequest
}

func (i informatieobjecttypeRequest) toInput() (service.CreateInformatieObjectTypeInput, error) {
	geldigheid, err := i.parse()
	if err != nil {
		return service.CreateInformatieObjectTypeInput{}, err
	}
	return service.CreateInformatieObjectTypeInput{
		CatalogusID:                 i.Catalogus,
		Omschrijving:                i.Omschrijving,
		Vertrouwelijkheidaanduiding: models.VertrouwelijkheidAanduiding(i.Vertrouwelijkheidaanduiding),
		Geldigheid:                  geldigheid,
	}, nil
}

type statustypeRequest struct {
	Omschrijving string `json:"omschrijving"`
	Volgnummer   int    `json:"volgnummer"`
}

type roltypeRequest struct {
	Omschrijving         string `json:"omschrijving"`
	OmschrijvingGeneriek string `json:"omschrijvingGeneriek"`
}

type resultaattypeRequest struct {
	Omschrijving        string `json:"omschrijving"`
	Selectielijstklasse string `json:"selectielijstklasse"`
}

type zaaktypeIOTRequest struct {
	InformatieObjectType uuid.UUID `json:"informatieobjecttype"`
	Volgnummer           int       `json:"volgnummer"`
	Richting             string    `json:"richting"`
}

type publishRequest struct {
	AutoPublishRelated bool `json:"autoPublishRelated"`
}
