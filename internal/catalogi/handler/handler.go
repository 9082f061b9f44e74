// Package handler exposes the catalogi API over HTTP. Routing uses chi;
// request and response shapes follow the catalogi API conventions
// (Dutch field names, ISO dates, flat JSON).
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"opencatalogi/internal/catalogi/service"
)

// Handler serves the public catalogi API.
type Handler struct {
	svc *service.Service
	log *slog.Logger
}

func New(svc *service.Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Routes mounts the catalogi API under /catalogi/api/v1.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/catalogi/api/v1", func(r chi.Router) {
		r.Route("/catalogussen", func(r chi.Router) {
			r.Post("/", h.createCatalogus)
			r.Get("/", h.listCatalogussen)
			r.Get("/{id}", h.getCatalogus)
		})

		r.Route("/zaaktypen", func(r chi.Router) {
			r.Post("/", h.createZaakType)
			r.Get("/", h.listZaakTypen)
			r.Get("/{id}", h.getZaakType)
			r.Put("/{id}", h.updateZaakType)
			r.Delete("/{id}", h.deleteZaakType)
			r.Post("/{id}/publish", h.publishZaakType)

			r.Post("/{id}/statustypen", h.createStatusType)
			r.Get("/{id}/statustypen", h.listStatusTypen)
			r.Post("/{id}/roltypen", h.createRolType)
			r.Get("/{id}/roltypen", h.listRolTypen)
			r.Post("/{id}/resultaattypen", h.createResultaatType)
			r.Get("/{id}/resultaattypen", h.listResultaatTypen)
			r.Post("/{id}/informatieobjecttypen", h.createZaakTypeIOT)
			r.Get("/{id}/informatieobjecttypen", h.listZaakTypeIOTs)
		})

		r.Route("/besluittypen", func(r chi.Router) {
			r.Post("/", h.createBesluitType)
			r.Get("/", h.listBesluitTypen)
			r.Get("/{id}", h.getBesluitType)
			r.Put("/{id}", h.updateBesluitType)
			r.Delete("/{id}", h.deleteBesluitType)
			r.Post("/{id}/publish", h.publishBesluitType)
		})

		r.Route("/informatieobjecttypen", func(r chi.Router) {
			r.Post("/", h.createInformatieObjectType)
			r.Get("/", h.listInformatieObjectTypen)
			r.Get("/{id}", h.getInformatieObjectType)
			r.Put("/{id}", h.updateInformatieObjectType)
			r.Delete("/{id}", h.deleteInformatieObjectType)
			r.Post("/{id}/publish", h.publishInformatieObjectType)
		})
	})
}

// -- catalogussen -------------------------------------------------------------

func (h *Handler) createCatalogus(w http.ResponseWriter, r *http.Request) {
	var req catalogusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	c, err := h.svc.CreateCatalogus(r.Context(), req.Domein, req.RSIN, req.Naam)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) listCatalogussen(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListCatalogussen(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getCatalogus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	c, err := h.svc.GetCatalogus(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// -- zaaktypen ----------------------------------------------------------------

func (h *Handler) createZaakType(w http.ResponseWriter, r *http.Request) {
	var req zaaktypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	zt, err := h.svc.CreateZaakType(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, zt)
}

func (h *Handler) listZaakTypen(w http.ResponseWriter, r *http.Request) {
	catalogusID, err := queryUUID(r, "catalogus")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.svc.ListZaakTypen(r.Context(), catalogusID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getZaakType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	zt, err := h.svc.GetZaakType(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, zt)
}

func (h *Handler) updateZaakType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var req zaaktypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	zt, err := h.svc.UpdateZaakType(r.Context(), id, in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, zt)
}

func (h *Handler) deleteZaakType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.svc.DeleteZaakType(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) publishZaakType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var req publishRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, h.log, err)
			return
		}
	}
	result, err := h.svc.PublishZaakType(r.Context(), id, req.AutoPublishRelated)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// -- zaaktype sub-resources ---------------------------------------------------

func (h *Handler) createStatusType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var req statustypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	st, err := h.svc.CreateStatusType(r.Context(), id, req.Omschrijving, req.Volgnummer)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (h *Handler) listStatusTypen(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.svc.ListStatusTypen(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createRolType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var req roltypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	rt, err := h.svc.CreateRolType(r.Context(), id, req.Omschrijving, req.OmschrijvingGeneriek)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (h *Handler) listRolTypen(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.svc.ListRolTypen(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createResultaatType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var req resultaattypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	rt, err := h.svc.CreateResultaatType(r.Context(), id, req.Omschrijving, req.Selectielijstklasse)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (h *Handler) listResultaatTypen(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.svc.ListResultaatTypen(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createZaakTypeIOT(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var req zaaktypeIOTRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	j, err := h.svc.CreateZaakTypeInformatieObjectType(r.Context(), id, req.InformatieObjectType, req.Volgnummer, req.Richting)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

func (h *Handler) listZaakTypeIOTs(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.svc.ListZaakTypeInformatieObjectTypen(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// -- besluittypen -------------------------------------------------------------

func (h *Handler) createBesluitType(w http.ResponseWriter, r *http.Request) {
	var req besluittypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	bt, err := h.svc.CreateBesluitType(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, bt)
}

func (h *Handler) listBesluitTypen(w http.ResponseWriter, r *http.Request) {
	catalogusID, err := queryUUID(r, "catalogus")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.svc.ListBesluitTypen(r.Context(), catalogusID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getBesluitType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	bt, err := h.svc.GetBesluitType(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, bt)
}

func (h *Handler) updateBesluitType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var req besluittypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	bt, err := h.svc.UpdateBesluitType(r.Context(), id, in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, bt)
}

func (h *Handler) deleteBesluitType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.svc.DeleteBesluitType(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) publishBesluitType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	result, err := h.svc.PublishBesluitType(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// -- informatieobjecttypen ----------------------------------------------------

func (h *Handler) createInformatieObjectType(w http.ResponseWriter, r *http.Request) {
	var req informatieobjecttypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	iot, err := h.svc.CreateInformatieObjectType(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, iot)
}

func (h *Handler) listInformatieObjectTypen(w http.ResponseWriter, r *http.Request) {
	catalogusID, err := queryUUID(r, "catalogus")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := h.svc.ListInformatieObjectTypen(r.Context(), catalogusID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getInformatieObjectType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	iot, err := h.svc.GetInformatieObjectType(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, iot)
}

func (h *Handler) updateInformatieObjectType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	var req informatieobjecttypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	iot, err := h.svc.UpdateInformatieObjectType(r.Context(), id, in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, iot)
}

func (h *Handler) deleteInformatieObjectType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.svc.DeleteInformatieObjectType(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) publishInformatieObjectType(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	result, err := h.svc.PublishInformatieObjectType(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
