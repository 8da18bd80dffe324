package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wordflash/wordflash/internal/errors"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/srs"
)

func (s *Server) handleStartReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	session, err := s.DeckService.StartReview(r.Context(), time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.putSession(session)

	log.Info("review session started: id=%s, due=%d", session.ID, session.Remaining())
	respondJSON(w, r, http.StatusCreated, map[string]any{
		"session_id": session.ID,
		"due_count":  session.Remaining(),
	})
}

func (s *Server) handleCurrentCard(w http.ResponseWriter, r *http.Request) {
	session := s.session(chi.URLParam(r, "id"))
	if session == nil {
		handleError(w, r, errors.NewBadRequestError("unknown review session"))
		return
	}

	now := time.Now()
	card, waitUntil := session.Current(now)

	switch {
	case card != nil:
		respondJSON(w, r, http.StatusOK, map[string]any{
			"card":     card,
			"front":    card.Front(),
			"back":     card.Back(),
			"previews": srs.PreviewIntervals(*card, now),
		})
	case waitUntil != nil:
		// Only time-delayed learning cards remain; the client shows a
		// countdown and polls again.
		respondJSON(w, r, http.StatusOK, map[string]any{
			"waiting_until": waitUntil,
		})
	default:
		respondJSON(w, r, http.StatusOK, map[string]any{
			"done":           true,
			"reviewed_count": session.ReviewedCount(),
		})
	}
}

type rateRequest struct {
	CardID      string  `json:"card_id" validate:"required"`
	Rating      string  `json:"rating" validate:"required,oneof=again hard good easy"`
	TimeSeconds float64 `json:"time_seconds" validate:"gte=0"`
}

func (s *Server) handleRateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	session := s.session(chi.URLParam(r, "id"))
	if session == nil {
		handleError(w, r, errors.NewBadRequestError("unknown review session"))
		return
	}

	var req rateRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	rating, err := srs.ParseRating(req.Rating)
	if err != nil {
		handleError(w, r, errors.NewInvalidRatingError(req.Rating))
		return
	}

	card, rateErr := s.DeckService.Rate(r.Context(), session, req.CardID, rating, time.Now(), req.TimeSeconds)
	if rateErr != nil {
		handleError(w, r, rateErr)
		return
	}

	log.Debug("card rated: id=%s, rating=%s", req.CardID, rating)
	respondJSON(w, r, http.StatusOK, map[string]any{
		"card":           card,
		"reviewed_count": session.ReviewedCount(),
		"done":           session.IsDone(),
	})
}

func (s *Server) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id := chi.URLParam(r, "id")
	if !s.dropSession(id) {
		handleError(w, r, errors.NewBadRequestError("unknown review session"))
		return
	}

	// Already-rated cards keep their persisted state; unrated cards are
	// simply due again next session.
	log.Info("review session discarded: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
