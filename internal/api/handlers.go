package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/wordflash/wordflash/internal/db"
	"github.com/wordflash/wordflash/internal/errors"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/review"
	"github.com/wordflash/wordflash/internal/services"
)

type Server struct {
	DeckService services.DeckService
	DB          *db.DB

	validate *validator.Validate

	// In-memory review session registry. Sessions are ephemeral: discarding
	// one has no effect on already-persisted card state.
	mu       sync.Mutex
	sessions map[string]*review.Session
}

// NewServer creates an API server over the given deck service.
func NewServer(deck services.DeckService, database *db.DB) *Server {
	return &Server{
		DeckService: deck,
		DB:          database,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		sessions:    map[string]*review.Session{},
	}
}

func (s *Server) session(id string) *review.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *Server) putSession(session *review.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *Server) dropSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// decodeJSON decodes the request body into v and runs struct validation.
func (s *Server) decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body")
	}
	if err := s.validate.Struct(v); err != nil {
		var invalid validator.ValidationErrors
		if stderrors.As(err, &invalid) && len(invalid) > 0 {
			f := invalid[0]
			return errors.NewValidationError(f.Field(), "failed "+f.Tag())
		}
		return errors.NewBadRequestError(err.Error())
	}
	return nil
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}
