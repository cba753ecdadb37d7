package worker

import (
	"context"
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/hlog"

	"github.com/thebtf/momentum/internal/auth"
	"github.com/thebtf/momentum/internal/progress"
	"github.com/thebtf/momentum/pkg/models"
)

// Actions accepted by POST /api/progress.
const (
	ActionGetSummary       = "get_summary"
	ActionUpdateMilestone  = "update_milestone"
	ActionTrackActivity    = "track_activity"
	ActionGenerateInsights = "generate_insights"
	ActionCreateMilestone  = "create_milestone"
	ActionSeedMilestones   = "seed_milestones"
)

// Error codes returned in the error envelope.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeNotFound        = "not_found"
	CodeUnauthorized    = "unauthorized"
	CodeRateLimited     = "rate_limited"
	CodeRequestTooLarge = "request_too_large"
	CodeInternal        = "internal_error"
)

// ReadyCheckTimeout bounds each dependency ping in /api/ready.
const ReadyCheckTimeout = 2 * time.Second

// ProgressRequest is the body of POST /api/progress.
type ProgressRequest struct {
	Updates      *models.MilestoneUpdate  `json:"updates,omitempty"`
	Milestone    *progress.MilestoneInput `json:"milestone,omitempty"`
	ActivityData models.JSONMap           `json:"activity_data,omitempty"`
	Action       string                   `json:"action"`
	MilestoneID  string                   `json:"milestone_id,omitempty"`
	ActivityType string                   `json:"activity_type,omitempty"`
}

// Response is the success envelope.
type Response struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Error   ErrorBody `json:"error"`
	Success bool      `json:"success"`
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// writeServiceError maps progress errors onto HTTP statuses. Internal
// failures are logged and answered with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, progress.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, CodeInvalidRequest, err.Error())
	case errors.Is(err, progress.ErrNotFound):
		writeError(w, r, http.StatusNotFound, CodeNotFound, "milestone not found")
	default:
		hlog.FromRequest(r).Error().Err(err).Str("action", action).Msg("Progress action failed")
		message := "internal error"
		if action == ActionGetSummary {
			message = progress.ErrUnavailable.Error()
		}
		writeError(w, r, http.StatusInternalServerError, CodeInternal, message)
	}
}

// handleHealth reports liveness. It never touches dependencies.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleReady pings every registered dependency.
// Returns 200 when all respond, 503 otherwise.
func (s *Service) handleReady(w http.ResponseWriter, r *http.Request) {
	results := make(map[string]string, len(s.checks))
	ready := true

	for name, check := range s.checks {
		ctx, cancel := context.WithTimeout(r.Context(), ReadyCheckTimeout)
		err := check.Ping(ctx)
		cancel()
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("dependency", name).Msg("Readiness check failed")
			results[name] = "unavailable"
			ready = false
			continue
		}
		results[name] = "ok"
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}
	writeJSON(w, r, status, map[string]any{"status": state, "checks": results})
}

// handleProgress dispatches POST /api/progress on the action field.
func (s *Service) handleProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
		return
	}

	var req ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, CodeRequestTooLarge, "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, CodeInvalidRequest, "request body must be a JSON object")
		return
	}

	ctx := r.Context()

	switch req.Action {
	case ActionGetSummary:
		summary, err := s.progress.GetSummary(ctx, id)
		if err != nil {
			writeServiceError(w, r, req.Action, err)
			return
		}
		writeJSON(w, r, http.StatusOK, Response{Success: true, Data: summary})

	case ActionUpdateMilestone:
		if req.MilestoneID == "" || req.Updates == nil {
			writeError(w, r, http.StatusBadRequest, CodeInvalidRequest, "milestone_id and updates are required")
			return
		}
		milestone, err := s.progress.UpdateMilestone(ctx, id, req.MilestoneID, req.Updates)
		if err != nil {
			writeServiceError(w, r, req.Action, err)
			return
		}
		writeJSON(w, r, http.StatusOK, Response{Success: true, Data: milestone})

	case ActionTrackActivity:
		if req.ActivityType == "" {
			writeError(w, r, http.StatusBadRequest, CodeInvalidRequest, "activity_type is required")
			return
		}
		if _, err := s.progress.TrackActivity(ctx, id, req.ActivityType, req.ActivityData); err != nil {
			writeServiceError(w, r, req.Action, err)
			return
		}
		writeJSON(w, r, http.StatusOK, Response{Success: true})

	case ActionGenerateInsights:
		if err := s.progress.GenerateInsights(ctx, id); err != nil {
			writeServiceError(w, r, req.Action, err)
			return
		}
		writeJSON(w, r, http.StatusOK, Response{Success: true, Message: "insight generation queued"})

	case ActionCreateMilestone:
		if req.Milestone == nil {
			writeError(w, r, http.StatusBadRequest, CodeInvalidRequest, "milestone is required")
			return
		}
		milestone, err := s.progress.CreateMilestone(ctx, id, *req.Milestone)
		if err != nil {
			writeServiceError(w, r, req.Action, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, Response{Success: true, Data: milestone})

	case ActionSeedMilestones:
		seeded, err := s.progress.SeedDefaultMilestones(ctx, id)
		if err != nil {
			writeServiceError(w, r, req.Action, err)
			return
		}
		writeJSON(w, r, http.StatusOK, Response{Success: true, Data: seeded})

	case "":
		writeError(w, r, http.StatusBadRequest, CodeInvalidRequest, "action is required")

	default:
		hlog.FromRequest(r).Debug().Str("action", req.Action).Msg("Unknown progress action")
		writeError(w, r, http.StatusBadRequest, CodeInvalidRequest, "unknown action")
	}
}
