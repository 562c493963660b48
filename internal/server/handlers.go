package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/eduplex/perfmetrics/internal/crypto"
	"github.com/eduplex/perfmetrics/internal/customerrors"
	"github.com/eduplex/perfmetrics/internal/logger"
	"github.com/eduplex/perfmetrics/internal/model"
)

// ingestHandler accepts a beacon batch: a JSON array of metric records,
// optionally HMAC-signed. 202 on success since delivery to the caller
// is fire-and-forget anyway.
func (s *Server) ingestHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		customerrors.WriteError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	if s.hashKey != "" {
		sig := r.Header.Get("HashSHA256")
		if sig == "" || !crypto.VerifyPayload(body, s.hashKey, sig) {
			customerrors.WriteError(w, http.StatusForbidden, customerrors.ErrBadSignature.Error())
			return
		}
	}

	var batch []model.Metric
	if err := json.Unmarshal(body, &batch); err != nil {
		customerrors.WriteError(w, http.StatusBadRequest, "malformed metric batch")
		return
	}
	if len(batch) == 0 {
		customerrors.WriteError(w, http.StatusBadRequest, "empty metric batch")
		return
	}
	for _, m := range batch {
		if m.Name == "" || m.Kind == "" {
			customerrors.WriteError(w, http.StatusBadRequest, customerrors.ErrInvalidPayload.Error())
			return
		}
	}

	if err := s.store.Write(r.Context(), batch); err != nil {
		logger.Log.Error().Err(err).Int("batch", len(batch)).Msg("beacon batch insert failed")
		customerrors.WriteError(w, http.StatusInternalServerError, "")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.BuildReport(r.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("report build failed")
		customerrors.WriteError(w, http.StatusInternalServerError, "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		logger.Log.Error().Err(err).Msg("report encode failed")
	}
}

func (s *Server) pingHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		customerrors.WriteError(w, http.StatusInternalServerError, "")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	customerrors.WriteError(w, http.StatusNotFound, "")
}
