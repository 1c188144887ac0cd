package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"tracklog.org/internal/obs"
	"tracklog.org/internal/store"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// respondStoreError maps datastore failures: a missing row is 404, anything
// else is an opaque 500 with the detail kept in the log.
func respondStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	obs.LogError("datastore error", err, nil)
	respondError(w, http.StatusInternalServerError, "internal error")
}

// decodeJSON parses the request body into v; a false return means the 400
// has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}
