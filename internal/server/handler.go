package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"
	"github.com/tjjh89017/readflag/internal/entity"
)

type errorResponse struct {
	Error string `json:"error"`
}

// getRead answers with the stored value as a JSON string, or null when the
// flag was never set.
func (s *Server) getRead(w http.ResponseWriter, r *http.Request) {
	req, err := entity.ParseGetReadRequest(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	value, err := s.flags.Get(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, value)
}

func (s *Server) setRead(w http.ResponseWriter, r *http.Request) {
	req, err := entity.ParseSetReadRequest(r.URL.Query(), s.flags.Strict())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ack, err := s.flags.Set(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, ack)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if entity.IsValidationError(err) {
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	hlog.FromRequest(r).Error().Err(err).Msg("store operation failed")
	s.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("failed to write response")
	}
}
