package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"guessme/internal/service"

	"go.uber.org/zap"
)

// AdminHandler handles catalog and account administration
type AdminHandler struct {
	authService *service.AuthService
	catalog     *service.CatalogService
	logger      *zap.SugaredLogger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *service.AuthService, catalog *service.CatalogService, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		catalog:     catalog,
		logger:      logger,
	}
}

type addWordRequest struct {
	Word       string `json:"word"`
	IsSolution bool   `json:"is_solution"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AddWord handles POST /api/admin/add-word
func (h *AdminHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	var req addWordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	word, created, err := h.catalog.AddWord(r.Context(), req.Word, req.IsSolution)
	if err != nil {
		respondWithServiceError(w, h.logger, err, nil)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, word)
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, nil)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt})
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// DeleteUser handles DELETE /api/admin/delete-user/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || userID <= 0 {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidUserID, "", nil)
		return
	}

	if self, ok := GetUserIDFromContext(r.Context()); ok && self == userID {
		respondWithError(w, h.logger, http.StatusBadRequest, "Cannot delete your own account", "", nil)
		return
	}

	if err := h.authService.DeleteUser(r.Context(), userID); err != nil {
		respondWithServiceError(w, h.logger, err, nil)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "User deleted"})
}

// UseWord handles POST /api/admin/use-word/{word}
func (h *AdminHandler) UseWord(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.UseWord(r.Context(), r.PathValue("word")); err != nil {
		respondWithServiceError(w, h.logger, err, nil)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "Word marked as used"})
}

// ExportWords handles GET /api/admin/words as a JSON download
func (h *AdminHandler) ExportWords(w http.ResponseWriter, r *http.Request) {
	words, err := h.catalog.Export(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, nil)
		return
	}

	filename := fmt.Sprintf("guessme_words_%s.json", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	respondWithJSON(w, http.StatusOK, words)
}
