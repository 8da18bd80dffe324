package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wordflash/wordflash/internal/errors"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/services"
)

type addWordRequest struct {
	Word               string `json:"word" validate:"required"`
	Translation        string `json:"translation" validate:"required"`
	SourceLanguage     string `json:"source_language" validate:"required"`
	Context            string `json:"context"`
	ContextTranslation string `json:"context_translation"`
}

func (s *Server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req addWordRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.DeckService.AddWord(r.Context(), services.AddWordInput{
		Word:               req.Word,
		Translation:        req.Translation,
		SourceLanguage:     req.SourceLanguage,
		Context:            req.Context,
		ContextTranslation: req.ContextTranslation,
	}, time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Added {
		status = http.StatusCreated
		log.Info("word added: id=%s", result.Card.ID)
	}
	respondJSON(w, r, status, result)
}

func (s *Server) handleDeckCounts(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	due, err := s.DeckService.DueCount(r.Context(), now)
	if err != nil {
		handleError(w, r, err)
		return
	}
	total, err := s.DeckService.TotalCount(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]int{
		"due":   due,
		"total": total,
	})
}

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.DeckService.Stats(r.Context(), time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleExportDeck(w http.ResponseWriter, r *http.Request) {
	cards, err := s.DeckService.ExportSnapshot(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="wordflash-deck.json"`)
	respondJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleImportDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var cards []models.Card
	if err := json.NewDecoder(r.Body).Decode(&cards); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid snapshot body"))
		return
	}

	imported, err := s.DeckService.ImportSnapshot(r.Context(), cards)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("deck snapshot imported: %d cards", imported)
	respondJSON(w, r, http.StatusOK, map[string]int{"imported": imported})
}

func (s *Server) handleResetCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	card, err := s.DeckService.ResetCard(r.Context(), id, time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleRemoveCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.DeckService.RemoveCard(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
