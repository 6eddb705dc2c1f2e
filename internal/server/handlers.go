package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Cyber-morocco/Skillsy/internal/observability"
	"github.com/Cyber-morocco/Skillsy/internal/resolver"
	"github.com/Cyber-morocco/Skillsy/internal/types"
)

// maxBodyBytes caps a resolution request body.
const maxBodyBytes = 64 << 10

// BannerResponse represents the response for /
type BannerResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthResponse represents the response for /health
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// handleRoot describes the service
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, BannerResponse{
		Message: "Skillsy Intelligence Service is Online!",
		Endpoints: map[string]string{
			"POST /resolve-skill": "Resolve and normalize skills",
			"GET /health":         "Check service health",
		},
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			log.Printf("[health] database ping failed: %v", err)
			s.jsonResponse(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  "degraded",
				Message: "Database is unreachable.",
			})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Message: "Skillsy Intelligence is running.",
	})
}

// handleResolveSkill resolves free text to a catalog concept, a suggestion
// list or a proposed new concept.
func (s *Server) handleResolveSkill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodeResolutionRequest(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	// Embedding work runs on a bounded number of workers
	if err := s.workers.Acquire(ctx, 1); err != nil {
		busy := &ErrBusy{}
		s.errorResponse(w, HTTPStatus(busy), busy.Error())
		return
	}
	defer s.workers.Release(1)

	outcome, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		if errors.Is(err, resolver.ErrEmptyInput) {
			err = &ErrValidation{Field: "text", Message: "must not be empty"}
		} else {
			err = &ErrUpstream{Err: err}
		}
		log.Printf("[resolve] req=%s failed: %v", observability.RequestID(ctx), err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, outcome)
}

// decodeResolutionRequest reads, normalizes and validates the request body.
func decodeResolutionRequest(w http.ResponseWriter, r *http.Request) (types.ResolutionRequest, error) {
	var req types.ResolutionRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return req, validationError(err)
	}
	return req, nil
}

// validationError converts validator output into an ErrValidation for the first failing field.
func validationError(err error) *ErrValidation {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ErrValidation{Field: "request", Message: err.Error()}
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &ErrValidation{Field: field, Message: "must not be empty"}
	case "bcp47_language_tag":
		return &ErrValidation{Field: field, Message: "must be a BCP 47 language tag"}
	default:
		return &ErrValidation{Field: field, Message: "failed " + fe.Tag() + " check"}
	}
}
