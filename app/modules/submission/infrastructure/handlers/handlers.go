package submissionhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	submissionservice "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/application"
	submissiondomain "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/domain"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

const maxRequestBytes = 1 << 20

// SubmissionHandlers implements Handlers.
type SubmissionHandlers struct {
	service submissionservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewSubmissionHandlers creates the HTTP handlers.
func NewSubmissionHandlers(service submissionservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &SubmissionHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

type submitScoreRequest struct {
	Seed             any                         `json:"seed"`
	Score            *json.Number                `json:"score"`
	VerificationHash string                      `json:"verification_hash"`
	FinalState       submissiondomain.FinalState `json:"final_state"`
	ConfigHash       string                      `json:"config_hash"`
	GameVersion      string                      `json:"game_version"`
	DurationSeconds  *json.Number                `json:"duration_seconds"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type rankResponse struct {
	Status string   `json:"status"`
	Data   rankData `json:"data"`
}

type rankData struct {
	Seed  string `json:"seed"`
	Score int64  `json:"score"`
	Rank  int    `json:"rank"`
}

type healthResponse struct {
	Status   string         `json:"status"`
	Services healthServices `json:"services"`
}

type healthServices struct {
	Database string `json:"database"`
}

// HandleSubmitScore handles POST /api/scores/submit.
func (h *SubmissionHandlers) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.tracer != nil {
		var span trace.Span
		ctx, span = h.tracer.Start(ctx, "HTTP.SubmitScore")
		defer span.End()
	}

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.UseNumber()
	var req submitScoreRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	sub, reason := req.toSubmission()
	if reason != "" {
		writeError(w, http.StatusBadRequest, reason)
		return
	}

	res, err := h.service.ProcessSubmission(ctx, userID, sub)
	if err != nil {
		var verr *submissiondomain.VerificationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Reason)
			return
		}
		h.logger.ErrorContext(ctx, "Submission failed", slog.String("user_id", userID), slog.Any("error", err))
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "Submission could not be stored, please retry")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleGetRank handles GET /api/leaderboards/seed/{seed}/rank?score=N.
func (h *SubmissionHandlers) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	seed := chi.URLParam(r, "seed")
	if seed == "" {
		writeError(w, http.StatusBadRequest, "Missing seed")
		return
	}

	score, err := strconv.ParseInt(r.URL.Query().Get("score"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid score: must be an integer")
		return
	}

	rank, err := h.service.GetRank(ctx, seed, score)
	if err != nil {
		h.logger.ErrorContext(ctx, "Rank lookup failed", slog.String("seed", seed), slog.Any("error", err))
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "Rank unavailable, please retry")
		return
	}

	writeJSON(w, http.StatusOK, rankResponse{
		Status: "success",
		Data:   rankData{Seed: seed, Score: score, Rank: rank},
	})
}

// HandleHealth handles GET /api/health.
func (h *SubmissionHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "Health check failed", slog.Any("error", err))
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "unhealthy",
			Services: healthServices{Database: "disconnected"},
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "healthy",
		Services: healthServices{Database: "connected"},
	})
}

// toSubmission converts the wire request, returning a client-facing reason when
// a field has the wrong shape.
func (req submitScoreRequest) toSubmission() (submissionservice.Submission, string) {
	sub := submissionservice.Submission{
		VerificationHash: req.VerificationHash,
		FinalState:       req.FinalState,
		ConfigHash:       req.ConfigHash,
		GameVersion:      req.GameVersion,
	}

	switch seed := req.Seed.(type) {
	case nil:
	case string:
		sub.Seed = seed
	case json.Number:
		sub.Seed = seed.String()
	default:
		return sub, "Invalid seed: must be a string"
	}

	if req.Score == nil {
		return sub, "Missing score"
	}
	score, ok := integerValue(*req.Score)
	if !ok {
		return sub, "Invalid score: must be an integer"
	}
	sub.Score = score

	if req.DurationSeconds != nil {
		d, err := req.DurationSeconds.Float64()
		if err != nil || math.IsNaN(d) || math.IsInf(d, 0) {
			return sub, "Invalid duration_seconds"
		}
		sub.DurationSeconds = d
	}
	return sub, ""
}

func integerValue(n json.Number) (int64, bool) {
	if v, err := n.Int64(); err == nil {
		return v, true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: "error", Message: message})
}
