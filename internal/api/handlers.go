package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Veraticus/audience-scope/internal/audience"
	"github.com/Veraticus/audience-scope/internal/common"
	"github.com/Veraticus/audience-scope/internal/model"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100

	// statusClientClosedRequest is nginx's code for a client that went away
	// before the response was written.
	statusClientClosedRequest = 499
)

var errStorageDisabled = errors.New("storage is not configured")

// AnalyzeRequest is the body of POST /v1/analyze. When UserID and GroupID are
// set the report is stored and its id returned.
type AnalyzeRequest struct {
	GroupID   string                `json:"group_id,omitempty"`
	GroupName string                `json:"group_name,omitempty"`
	Profiles  []model.MemberProfile `json:"profiles"`
	UserID    int64                 `json:"user_id,omitempty"`
}

// AnalyzeResponse is the reply to POST /v1/analyze.
type AnalyzeResponse struct {
	Report *model.AnalysisReport `json:"report"`
	ID     string                `json:"id,omitempty"`
}

// CompareRequest is the body of POST /v1/compare.
type CompareRequest struct {
	A *model.AnalysisReport `json:"a"`
	B *model.AnalysisReport `json:"b"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if len(req.Profiles) > s.opts.MaxProfiles {
		s.respondError(w, r, fmt.Errorf("%w: at most %d profiles per request", common.ErrInvalidInput, s.opts.MaxProfiles))
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), req.Profiles)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := AnalyzeResponse{Report: report}
	if req.UserID != 0 && req.GroupID != "" && s.store != nil {
		stored, err := s.store.SaveAnalysis(r.Context(), req.UserID, req.GroupID, req.GroupName, report)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		resp.ID = stored.ID
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.A == nil || req.B == nil {
		s.respondError(w, r, fmt.Errorf("%w: both reports a and b are required", common.ErrInvalidInput))
		return
	}
	respondJSON(w, http.StatusOK, audience.Compare(req.A, req.B))
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, r, errStorageDisabled)
		return
	}
	stored, err := s.store.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stored)
}

func (s *Server) handleMarkSaved(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, r, errStorageDisabled)
		return
	}
	stored, err := s.store.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.store.MarkReportSaved(r.Context(), stored.UserID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, r, errStorageDisabled)
		return
	}
	userID, err := parseUserID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	stats, err := s.store.GetUserStats(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleUserAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, r, errStorageDisabled)
		return
	}
	userID, err := parseUserID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxHistoryLimit {
			s.respondError(w, r, fmt.Errorf("%w: limit must be between 1 and %d", common.ErrInvalidInput, maxHistoryLimit))
			return
		}
	}

	summaries, err := s.store.GetRecentAnalyses(r.Context(), userID, limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

func parseUserID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid user id %q", common.ErrInvalidInput, raw)
	}
	return id, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", common.ErrInvalidInput, tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty request body", common.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed json: %w", common.ErrInvalidInput, err)
	}
	return nil
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status == statusClientClosedRequest {
		s.logger.Debug("client closed request", "method", r.Method, "path", r.URL.Path)
	} else if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	respondJSON(w, status, errorResponse{Error: message})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, errStorageDisabled):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "request canceled"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
