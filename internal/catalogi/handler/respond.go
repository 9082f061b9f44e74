package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "opencatalogi/pkg/domain-errors"
	"opencatalogi/pkg/platform/sentinel"
)

type errorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError translates domain and sentinel errors into an HTTP error body.
// An explicit domain code wins over the sentinel underneath it, so a service
// can turn a missing reference into a bad request. Internal errors get a
// generic message; the detail stays in the log.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var de *dErrors.Error
	if errors.As(err, &de) {
		status := dErrors.ToHTTPStatus(de.Code)
		if status == http.StatusInternalServerError {
			log.Error("request failed", "error", err)
			writeJSON(w, status, errorResponse{Code: string(dErrors.CodeInternal), Message: "internal error"})
			return
		}
		writeJSON(w, status, errorResponse{Code: string(de.Code), Message: de.Message, Details: dErrors.DetailsOf(err)})
		return
	}

	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Code: string(dErrors.CodeNotFound), Message: "resource not found"})
	case errors.Is(err, sentinel.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Code: string(dErrors.CodeConflict), Message: "resource conflict"})
	default:
		log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: string(dErrors.CodeInternal), Message: "internal error"})
	}
}
