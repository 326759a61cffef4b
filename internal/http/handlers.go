package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JIDAIN/bill/internal/dataset"
	"github.com/JIDAIN/bill/internal/ingest"
	"github.com/JIDAIN/bill/internal/log"
	"github.com/JIDAIN/bill/internal/session"
	"github.com/JIDAIN/bill/internal/view"
)

// maxUploadBytes bounds one export upload; datasets are per-person bills,
// not warehouse dumps.
const maxUploadBytes = 16 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.End(chi.URLParam(r, "sessionID")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLoadDataset ingests a new export into the session, replacing any
// previous dataset atomically. The response carries every chart spec so
// the client renders the whole dashboard from one round-trip.
func (s *Server) handleLoadDataset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var err error
	if s.sheetsSource != nil {
		err = sess.LoadFrom(r.Context(), s.sheetsSource)
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, _, ferr := r.FormFile("file")
		if ferr != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()
		err = sess.Load(r.Context(), file)
	}
	if err != nil {
		s.writeLoadError(w, r, err)
		return
	}

	specs, err := sess.Specs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, chartsResponse{Charts: specs})
}

func (s *Server) handleAllCharts(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	specs, err := sess.Specs(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrNoDataset) {
			writeError(w, http.StatusConflict, "no dataset loaded")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, chartsResponse{Charts: specs})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	spec, err := sess.Spec(chi.URLParam(r, "chartID"))
	if err != nil {
		s.writeChartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func (s *Server) handleUpdateSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var upd session.SelectionUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid selection body")
		return
	}

	spec, err := sess.Update(chi.URLParam(r, "chartID"), upd)
	if err != nil {
		s.writeChartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

// writeLoadError maps ingest and partition failures to the user-facing
// wording: malformed rows corrupt sums so the whole file is rejected.
func (s *Server) writeLoadError(w http.ResponseWriter, r *http.Request, err error) {
	var rowErr *ingest.RowError
	var schemaErr *ingest.SchemaError
	switch {
	case errors.As(err, &rowErr), errors.As(err, &schemaErr):
		s.logger.WarnContext(r.Context(), "export rejected", log.FieldOperation, log.OpLoad, log.FieldError, err.Error())
		writeError(w, http.StatusUnprocessableEntity, "cannot process file")
	case errors.Is(err, dataset.ErrEmptyDataset):
		writeError(w, http.StatusUnprocessableEntity, "no data to display")
	default:
		s.logger.ErrorContext(r.Context(), "export load failed", log.FieldOperation, log.OpLoad, log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "cannot process file")
	}
}

func (s *Server) writeChartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoDataset):
		writeError(w, http.StatusConflict, "no dataset loaded")
	case errors.Is(err, session.ErrUnknownChart):
		writeError(w, http.StatusNotFound, "unknown chart")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

type chartsResponse struct {
	Charts []view.ChartSpec `json:"charts"`
}
