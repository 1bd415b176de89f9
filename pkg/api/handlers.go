package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"

	"github.com/cardazim/cardazim/pkg/storage"
)

// maxSolveBody bounds the JSON body of a solve request.
const maxSolveBody = 64 << 10

// Server holds the API server state
type Server struct {
	store   CardStore
	config  ServerConfig
	metrics *Metrics
	logger  logrus.FieldLogger
}

// NewServer creates a new API server
func NewServer(store CardStore, config ServerConfig, metrics *Metrics, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleListCards godoc
//
//	@Summary		List cards
//	@Description	List every received card, oldest first
//	@Tags			cards
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Failure		500	{object}	map[string]string
//	@Router			/cards [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cards, err := s.store.List()
	if err != nil {
		s.metrics.RecordStoreOperation("list", false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to list cards: %v", err), http.StatusInternalServerError)
		return
	}
	s.metrics.RecordStoreOperation("list", true, time.Since(start))
	s.metrics.UpdateCardsStored(len(cards))

	summaries := make([]CardSummary, 0, len(cards))
	for _, stored := range cards {
		c, err := stored.Card()
		if err != nil {
			s.logger.WithError(err).WithField("id", stored.ID.String()).Warn("skipping unreadable card")
			continue
		}
		summaries = append(summaries, newCardSummary(stored, c))
	}

	sendSuccess(w, map[string]interface{}{"cards": summaries})
}

// handleGetCard godoc
//
//	@Summary		Get a card
//	@Description	Get the summary of one card
//	@Tags			cards
//	@Produce		json
//	@Param			id	path		string	true	"Card ID"
//	@Success		200	{object}	CardSummary
//	@Failure		400	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/cards/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.cardID(w, r)
	if !ok {
		return
	}

	stored, ok := s.getStored(w, id)
	if !ok {
		return
	}

	c, err := stored.Card()
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to decode card: %v", err), http.StatusInternalServerError)
		return
	}

	sendSuccess(w, newCardSummary(stored, c))
}

// handleSolveCard godoc
//
//	@Summary		Solve a card
//	@Description	Try a solution against the card's encrypted image
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Card ID"
//	@Param			request	body		SolveRequest	true	"Proposed solution"
//	@Success		200		{object}	CardSummary
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Router			/cards/{id}/solve [post]
//	@Security		ApiKeyAuth
func (s *Server) handleSolveCard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.cardID(w, r)
	if !ok {
		return
	}

	var req SolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSolveBody)).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}
	if req.Solution == nil {
		sendError(w, "solution is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	c, solved, err := s.store.Solve(id, *req.Solution)
	if err != nil {
		s.metrics.RecordStoreOperation("solve", false, time.Since(start))
		s.sendStoreError(w, err)
		return
	}
	s.metrics.RecordStoreOperation("solve", true, time.Since(start))
	s.metrics.RecordSolveAttempt(solved)

	if !solved {
		sendError(w, "Wrong solution", http.StatusUnprocessableEntity)
		return
	}

	s.logger.WithFields(logrus.Fields{"id": id.String(), "card": c.Name}).Info("card solved")

	stored, ok := s.getStored(w, id)
	if !ok {
		return
	}
	sendSuccess(w, newCardSummary(stored, c))
}

// handleCardImage godoc
//
//	@Summary		Card image
//	@Description	Get the card image as PNG, decrypted once the card is solved
//	@Tags			cards
//	@Produce		png
//	@Param			id	path		string	true	"Card ID"
//	@Success		200	{file}		binary
//	@Failure		404	{object}	map[string]string
//	@Router			/cards/{id}/image [get]
//	@Security		ApiKeyAuth
func (s *Server) handleCardImage(w http.ResponseWriter, r *http.Request) {
	id, ok := s.cardID(w, r)
	if !ok {
		return
	}

	stored, ok := s.getStored(w, id)
	if !ok {
		return
	}

	c, err := stored.Card()
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to decode card: %v", err), http.StatusInternalServerError)
		return
	}

	if err := c.Image.Image.Validate(); err != nil {
		sendError(w, fmt.Sprintf("Failed to render image: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := c.Image.Image.EncodePNG(w); err != nil {
		s.logger.WithError(err).WithField("id", id.String()).Warn("failed to write card image")
	}
}

// handleDeleteCard godoc
//
//	@Summary		Delete a card
//	@Description	Remove a card from the store
//	@Tags			cards
//	@Produce		json
//	@Param			id	path		string	true	"Card ID"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/cards/{id} [delete]
//	@Security		ApiKeyAuth
func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.cardID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	if err := s.store.Delete(id); err != nil {
		s.metrics.RecordStoreOperation("delete", false, time.Since(start))
		s.sendStoreError(w, err)
		return
	}
	s.metrics.RecordStoreOperation("delete", true, time.Since(start))

	sendSuccess(w, map[string]string{"message": "Card deleted successfully"})
}

func (s *Server) cardID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := storage.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

func (s *Server) getStored(w http.ResponseWriter, id ksuid.KSUID) (*storage.StoredCard, bool) {
	start := time.Now()
	stored, err := s.store.Get(id)
	if err != nil {
		s.metrics.RecordStoreOperation("get", false, time.Since(start))
		s.sendStoreError(w, err)
		return nil, false
	}
	s.metrics.RecordStoreOperation("get", true, time.Since(start))
	return stored, true
}

func (s *Server) sendStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		sendError(w, "Card not found", http.StatusNotFound)
		return
	}
	sendError(w, fmt.Sprintf("Card store error: %v", err), http.StatusInternalServerError)
}
