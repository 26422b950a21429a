package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/mbaxter/reeltaste/internal/pipeline"
	"github.com/mbaxter/reeltaste/internal/types"
)

// RecommendRequest represents the request body for /recommend
type RecommendRequest struct {
	Username     string `json:"username" validate:"required"`
	Mode         string `json:"mode" validate:"omitempty,oneof=watchlist ai"`
	OnlyFlatrate bool   `json:"only_flatrate"`
}

// TraktTokenRequest represents the request body for /trakt/token
type TraktTokenRequest struct {
	PIN string `json:"pin" validate:"required"`
}

type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

func (v *requestValidator) check(req any) (string, bool) {
	err := v.validate.Struct(req)
	if err == nil {
		return "", true
	}

	validationErrors, isVE := err.(validator.ValidationErrors)
	if !isVE {
		return err.Error(), false
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, strings.ToLower(fieldErr.Field())+" failed "+fieldErr.Tag()+" validation")
	}
	return strings.Join(messages, "; "), false
}

// handleRecommend runs the full recommendation pipeline for one user.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	// The pipeline fans out to scrapers and third-party services; a panic
	// anywhere in that graph must not take the server down.
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Any("panic", rec).Msg("recommend handler panicked")
			s.errorResponse(w, http.StatusInternalServerError, "internal error")
		}
	}()

	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if message, ok := s.validator.check(req); !ok {
		s.errorResponse(w, http.StatusBadRequest, message)
		return
	}

	mode := types.Mode(req.Mode)
	if req.Mode == "" {
		mode = types.ModeAI
	}

	rec, err := s.recommender.Recommend(r.Context(), pipeline.Request{
		Username:     req.Username,
		Mode:         mode,
		OnlyFlatrate: req.OnlyFlatrate,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, rec)
}

// handleDiagnose reports listing visibility for a username without touching
// the catalog or embedding services.
func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("username")
	if strings.TrimSpace(user) == "" {
		s.errorResponse(w, http.StatusBadRequest, "username is required")
		return
	}

	s.jsonResponse(w, http.StatusOK, s.diagnoser.Diagnose(r.Context(), user))
}

// handleTraktToken exchanges an authorization PIN for an access token.
func (s *Server) handleTraktToken(w http.ResponseWriter, r *http.Request) {
	if s.trakt == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "trakt is not configured")
		return
	}

	var req TraktTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if message, ok := s.validator.check(req); !ok {
		s.errorResponse(w, http.StatusBadRequest, message)
		return
	}

	token, err := s.trakt.ExchangePIN(r.Context(), req.PIN)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, token)
}

func (s *Server) handleTraktRatings(w http.ResponseWriter, r *http.Request) {
	if s.trakt == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "trakt is not configured")
		return
	}
	s.jsonResponse(w, http.StatusOK, s.trakt.Ratings(r.Context(), r.PathValue("username")))
}

func (s *Server) handleTraktHistory(w http.ResponseWriter, r *http.Request) {
	if s.trakt == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "trakt is not configured")
		return
	}
	s.jsonResponse(w, http.StatusOK, s.trakt.History(r.Context(), r.PathValue("username")))
}

func (s *Server) handleTraktWatchlist(w http.ResponseWriter, r *http.Request) {
	if s.trakt == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "trakt is not configured")
		return
	}
	s.jsonResponse(w, http.StatusOK, s.trakt.Watchlist(r.Context(), r.PathValue("username")))
}
