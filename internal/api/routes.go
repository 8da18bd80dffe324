package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/words", s.handleAddWord)

		r.Get("/deck/counts", s.handleDeckCounts)
		r.Get("/deck/stats", s.handleDeckStats)
		r.Get("/deck/export", s.handleExportDeck)
		r.Post("/deck/import", s.handleImportDeck)

		r.Post("/cards/{id}/reset", s.handleResetCard)
		r.Delete("/cards/{id}", s.handleRemoveCard)

		r.Post("/reviews", s.handleStartReview)
		r.Get("/reviews/{id}/current", s.handleCurrentCard)
		r.Post("/reviews/{id}/rate", s.handleRateCard)
		r.Delete("/reviews/{id}", s.handleDiscardSession)
	})

	return r
}
