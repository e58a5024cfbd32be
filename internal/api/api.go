// Package api serves the content bank and the progress tracker over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/civica/civica/internal/content"
	"github.com/civica/civica/internal/progress"
)

const maxBodyBytes = 64 << 10

// Server holds the handlers' dependencies.
type Server struct {
	bank    *content.Bank
	tracker *progress.Tracker
}

// NewServer creates a server over a content bank and tracker.
func NewServer(bank *content.Bank, tracker *progress.Tracker) *Server {
	return &Server{bank: bank, tracker: tracker}
}

// Handler returns the HTTP router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("GET /v1/simulations/{type}", s.handleSimulation)
	mux.HandleFunc("GET /v1/citizen/rights", s.handleRights)
	mux.HandleFunc("GET /v1/citizen/dos-and-donts", s.handleDosAndDonts)
	mux.HandleFunc("GET /v1/citizen/quiz", s.handleCitizenQuiz)
	mux.HandleFunc("POST /v1/answers/validate", s.handleValidate)

	mux.HandleFunc("GET /v1/progress", s.handleGetProgress)
	mux.HandleFunc("POST /v1/progress/simulations/{type}", s.handleRecordSimulation)
	mux.HandleFunc("POST /v1/progress/citizen-quiz", s.handleRecordCitizenQuiz)
	mux.HandleFunc("DELETE /v1/progress", s.handleResetProgress)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Ping(r.Context()); err != nil {
		slog.Warn("readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleSimulation(w http.ResponseWriter, r *http.Request) {
	ds, err := s.bank.SimulationDataset(content.SimulationType(r.PathValue("type")))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleRights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bank.CitizenRights())
}

func (s *Server) handleDosAndDonts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bank.DosAndDonts())
}

func (s *Server) handleCitizenQuiz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bank.CitizenQuiz())
}

type validateRequest struct {
	Simulation string `json:"simulation"`
	Quiz       string `json:"quiz"`
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	q, err := s.lookupQuestion(req)
	switch {
	case errors.Is(err, content.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := content.CheckAnswer(q, norm.NFC.String(strings.TrimSpace(req.OptionID)))
	if err != nil {
		slog.Warn("validated against malformed question", "question_id", q.ID, "error", err)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) lookupQuestion(req validateRequest) (content.Question, error) {
	if req.QuestionID == "" {
		return content.Question{}, fmt.Errorf("question_id is required")
	}
	switch {
	case req.Simulation != "" && req.Quiz != "":
		return content.Question{}, fmt.Errorf("set either simulation or quiz, not both")
	case req.Simulation != "":
		return s.bank.SimulationQuestion(content.SimulationType(req.Simulation), req.QuestionID)
	case req.Quiz == "citizen":
		return s.bank.CitizenQuizQuestion(req.QuestionID)
	case req.Quiz != "":
		return content.Question{}, fmt.Errorf("unknown quiz %q", req.Quiz)
	default:
		return content.Question{}, fmt.Errorf("simulation or quiz is required")
	}
}

type progressResponse struct {
	Progress          progress.UserProgress `json:"progress"`
	CompletionPercent int                   `json:"completion_percent"`
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	p := s.tracker.LoadProgress(r.Context())
	writeJSON(w, http.StatusOK, progressResponse{
		Progress:          p,
		CompletionPercent: progress.CompletionPercent(p),
	})
}

type tallyRequest struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type recordResponse struct {
	Progress          progress.UserProgress `json:"progress"`
	CompletionPercent int                   `json:"completion_percent"`
	Summary           progress.Summary      `json:"summary"`
	Persisted         bool                  `json:"persisted"`
}

func (s *Server) handleRecordSimulation(w http.ResponseWriter, r *http.Request) {
	var req tallyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	st := content.SimulationType(r.PathValue("type"))
	p, err := s.tracker.RecordSimulationResult(r.Context(), st, req.Correct, req.Total)
	s.writeRecord(w, p, err, func() progress.Summary {
		return progress.SimulationSummary(req.Correct, req.Total)
	})
}

func (s *Server) handleRecordCitizenQuiz(w http.ResponseWriter, r *http.Request) {
	var req tallyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := s.tracker.RecordCitizenQuizResult(r.Context(), req.Correct, req.Total)
	s.writeRecord(w, p, err, func() progress.Summary {
		return progress.CitizenQuizSummary(req.Correct, req.Total)
	})
}

// writeRecord answers a record request. A result that could not be persisted is
// still returned, flagged as such.
func (s *Server) writeRecord(w http.ResponseWriter, p progress.UserProgress, err error, summary func() progress.Summary) {
	persisted := true
	switch {
	case errors.Is(err, progress.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, progress.ErrNotPersisted):
		persisted = false
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, recordResponse{
		Progress:          p,
		CompletionPercent: progress.CompletionPercent(p),
		Summary:           summary(),
		Persisted:         persisted,
	})
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.ResetProgress(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
