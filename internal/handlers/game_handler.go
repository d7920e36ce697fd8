package handlers

import (
	"net/http"

	"guessme/internal/service"

	"go.uber.org/zap"
)

// GameHandler serves the daily game API
type GameHandler struct {
	games   *service.GameService
	catalog *service.CatalogService
	logger  *zap.SugaredLogger
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *service.GameService, catalog *service.CatalogService, logger *zap.SugaredLogger) *GameHandler {
	return &GameHandler{games: games, catalog: catalog, logger: logger}
}

type guessRequest struct {
	Guess string `json:"guess"`
}

type endGameRequest struct {
	Won bool `json:"won"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// endGameOverrides: a missing session is a bad request here, not a 403
var endGameOverrides = map[string]int{
	service.ErrNoActiveSession.Code: http.StatusBadRequest,
}

func (h *GameHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, h.logger, http.StatusUnauthorized, ErrUnauthorized, "", nil)
	}
	return id, ok
}

// StartGame handles POST /api/start-game
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	result, err := h.games.StartGame(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, nil)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// SubmitGuess handles POST /api/guess
func (h *GameHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req guessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	result, err := h.games.SubmitGuess(r.Context(), userID, req.Guess)
	if err != nil {
		respondWithServiceError(w, h.logger, err, nil)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// UseHint handles POST /api/use-hint
func (h *GameHandler) UseHint(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	result, err := h.games.UseHint(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, nil)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// EndGame handles POST /api/end-game
func (h *GameHandler) EndGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req endGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	message, err := h.games.EndGame(r.Context(), userID, req.Won)
	if err != nil {
		respondWithServiceError(w, h.logger, err, endGameOverrides)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: message})
}

// GetStats handles GET /api/stats/me
func (h *GameHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	result, err := h.games.GetStats(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, nil)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// CheckWord handles GET /api/check-word/{guess}. No login needed.
func (h *GameHandler) CheckWord(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.CheckWord(r.Context(), r.PathValue("guess"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, nil)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
