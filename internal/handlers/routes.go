package handlers

import (
	"net/http"

	"guessme/internal/security"
)

// Routes registers every API route on a new mux
func Routes(m *Middleware, game *GameHandler, auth *AuthHandler, admin *AdminHandler, limiter *security.RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/signup", limiter.Limit(auth.Signup))
	mux.HandleFunc("POST /api/login", limiter.Limit(auth.Login))
	mux.HandleFunc("POST /api/logout", auth.Logout)

	mux.HandleFunc("GET /api/check-word/{guess}", game.CheckWord)
	mux.HandleFunc("POST /api/start-game", m.RequireAuth(game.StartGame))
	mux.HandleFunc("POST /api/guess", m.RequireAuth(game.SubmitGuess))
	mux.HandleFunc("POST /api/use-hint", m.RequireAuth(game.UseHint))
	mux.HandleFunc("POST /api/end-game", m.RequireAuth(game.EndGame))
	mux.HandleFunc("GET /api/stats/me", m.RequireAuth(game.GetStats))

	mux.HandleFunc("POST /api/admin/add-word", m.RequireAdmin(admin.AddWord))
	mux.HandleFunc("GET /api/admin/users", m.RequireAdmin(admin.ListUsers))
	mux.HandleFunc("DELETE /api/admin/delete-user/{id}", m.RequireAdmin(admin.DeleteUser))
	mux.HandleFunc("POST /api/admin/use-word/{word}", m.RequireAdmin(admin.UseWord))
	mux.HandleFunc("GET /api/admin/words", m.RequireAdmin(admin.ExportWords))

	return mux
}
