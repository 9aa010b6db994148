package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Simplici0/estatecalc/internal/analyzer"
	"github.com/Simplici0/estatecalc/internal/entity"
	"github.com/Simplici0/estatecalc/internal/formula"
	"github.com/Simplici0/estatecalc/internal/report"
	"github.com/Simplici0/estatecalc/internal/scenario"
	"github.com/Simplici0/estatecalc/internal/store"
)

const maxBodyBytes = 1 << 20

type analyzeRequest struct {
	Name    string            `json:"name"`
	Dataset *analyzer.Dataset `json:"dataset,omitempty"`
	// Scenario is a YAML scenario document used instead of Dataset.
	Scenario string `json:"scenario,omitempty"`
}

type cellsUpdateRequest struct {
	Cells  []entity.Cell  `json:"cells"`
	Values formula.Values `json:"values"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleAnalysesCreate(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name, d := req.Name, analyzer.Dataset{}
	switch {
	case strings.TrimSpace(req.Scenario) != "":
		sc, err := scenario.Parse([]byte(req.Scenario))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if d, err = sc.Dataset(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if name == "" {
			name = sc.Name
		}
	case req.Dataset != nil:
		d = *req.Dataset
	default:
		writeError(w, http.StatusBadRequest, "either dataset or scenario is required")
		return
	}

	s.analyzeAndSave(w, r, name, d)
}

func (s *server) analyzeAndSave(w http.ResponseWriter, r *http.Request, name string, d analyzer.Dataset) {
	out := s.analyzer.Analyze(d)

	saved, err := s.store.SaveAnalysis(r.Context(), name, d, out)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("save analysis")
		writeError(w, http.StatusInternalServerError, "failed to save analysis")
		return
	}

	status := http.StatusCreated
	if out.Err != nil {
		status = analysisStatus(out.Err)
		zerolog.Ctx(r.Context()).Info().Str("analysis_id", saved.ID).Str("error", out.Error).Msg("analysis stopped early")
	}
	writeJSON(w, status, saved)
}

func (s *server) handleAnalysesList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListAnalyses(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list analyses")
		writeError(w, http.StatusInternalServerError, "failed to load analyses")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *server) handleAnalysisGet(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnalysis(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *server) handleAnalysisReport(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnalysis(w, r)
	if !ok {
		return
	}

	body, err := report.HTML(a.Name, a.Output)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("render report")
		writeError(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *server) loadAnalysis(w http.ResponseWriter, r *http.Request) (store.Analysis, bool) {
	a, err := s.store.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return store.Analysis{}, false
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("load analysis")
		writeError(w, http.StatusInternalServerError, "failed to load analysis")
		return store.Analysis{}, false
	}
	return a, true
}

func (s *server) handleScenariosList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListScenarios(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list scenarios")
		writeError(w, http.StatusInternalServerError, "failed to load scenarios")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleScenarioSave stores the YAML scenario sent as the request body.
func (s *server) handleScenarioSave(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	sc, err := scenario.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := sc.Dataset(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.store.SaveScenario(r.Context(), sc)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("save scenario")
		writeError(w, http.StatusInternalServerError, "failed to save scenario")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleScenarioGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetScenario(r.Context(), chi.URLParam(r, "name"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("load scenario")
		writeError(w, http.StatusInternalServerError, "failed to load scenario")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleScenarioAnalyze runs a saved scenario, falling back to the bundled
// samples when nothing is saved under that name.
func (s *server) handleScenarioAnalyze(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var sc *scenario.Scenario
	rec, err := s.store.GetScenario(r.Context(), name)
	switch {
	case err == nil:
		if sc, err = rec.Scenario(); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("scenario", name).Msg("decode stored scenario")
			writeError(w, http.StatusInternalServerError, "stored scenario is unreadable")
			return
		}
	case errors.Is(err, store.ErrNotFound):
		sample, ok := scenario.Sample(name)
		if !ok {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		sc = sample
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("load scenario")
		writeError(w, http.StatusInternalServerError, "failed to load scenario")
		return
	}

	d, err := sc.Dataset()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.analyzeAndSave(w, r, sc.Name, d)
}

// handleCellsUpdate writes values back into the matching cells.
func (s *server) handleCellsUpdate(w http.ResponseWriter, r *http.Request) {
	var req cellsUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Cells == nil {
		req.Cells = []entity.Cell{}
	}
	writeJSON(w, http.StatusOK, analyzer.UpdateCells(req.Cells, req.Values))
}

// analysisStatus maps the error that stopped an analysis to a status code.
func analysisStatus(err error) int {
	var invalid *entity.ValidationError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
