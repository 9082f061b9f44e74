package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"opencatalogi/internal/notifications"
	"opencatalogi/internal/notifications/ledger"
)

// Notifier re-queues a ledgered event for delivery. Satisfied by the
// notification dispatcher.
type Notifier interface {
	Dispatch(ctx context.Context, ev notifications.Event)
}

// AdminHandler exposes the failed-notification ledger to operators: inspect
// what could not be delivered, resend it, or drop it.
type AdminHandler struct {
	ledger   ledger.Store
	notifier Notifier
	log      *slog.Logger
}

func NewAdminHandler(st ledger.Store, notifier Notifier, log *slog.Logger) *AdminHandler {
	return &AdminHandler{ledger: st, notifier: notifier, log: log}
}

// Routes mounts the admin API under /admin/api/v1.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Route("/admin/api/v1/failed-notifications", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/resend", h.resend)
	})
}

func (h *AdminHandler) list(w http.ResponseWriter, r *http.Request) {
	kanaal := notifications.Kanaal(r.URL.Query().Get("kanaal"))
	out, err := h.ledger.List(r.Context(), kanaal)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if out == nil {
		out = []*notifications.FailedNotification{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	fn, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, fn)
}

func (h *AdminHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.ledger.Delete(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resend re-queues the stored payload unchanged and removes the ledger
// entry. If delivery fails again the dispatcher writes a fresh entry.
func (h *AdminHandler) resend(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	fn, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	h.notifier.Dispatch(r.Context(), fn.Message)
	if err := h.ledger.Delete(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
