package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/varcoaccess/varco/internal/varco/apperr"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Kind: kind, Message: msg}})
}

// respondErr maps a service error onto an HTTP response.  Kinded errors
// carry their kind and message to the client; anything else is an
// unexpected internal failure and is logged, not exposed.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.NotFound:
		writeError(w, http.StatusNotFound, kind.String(), err.Error())
	case apperr.Conflict:
		writeError(w, http.StatusConflict, kind.String(), err.Error())
	case apperr.BadRequest:
		writeError(w, http.StatusBadRequest, kind.String(), err.Error())
	case apperr.Unauthorized:
		writeError(w, http.StatusUnauthorized, kind.String(), err.Error())
	default:
		s.logger.Error("request failed",
			"method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
	}
}

// decodeJSON parses a request body, rejecting unknown fields so typos in
// client payloads fail loudly.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.New(apperr.BadRequest, "invalid JSON body")
	}
	return nil
}
