package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"guessme/internal/service"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

// kindStatus is the default HTTP status for each service error kind
var kindStatus = map[service.Kind]int{
	service.KindValidation:      http.StatusBadRequest,
	service.KindBudgetExceeded:  http.StatusForbidden,
	service.KindNotFound:        http.StatusNotFound,
	service.KindStateConflict:   http.StatusForbidden,
	service.KindExhausted:       http.StatusNotFound,
	service.KindUnauthenticated: http.StatusUnauthorized,
	service.KindDuplicate:       http.StatusConflict,
}

// codeStatus overrides kindStatus for individual errors
var codeStatus = map[string]int{
	service.ErrAllRevealed.Code:      http.StatusBadRequest,
	service.ErrConcurrentUpdate.Code: http.StatusConflict,
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, logger *zap.SugaredLogger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		logger.Errorw(logMsg, "error", err)
	}

	respondWithJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps a service error to its status. overrides,
// keyed by error code, take precedence for a single route. Anything that is
// not a service error is logged and hidden behind a 500.
func respondWithServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, err error, overrides map[string]int) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		respondWithError(w, logger, http.StatusInternalServerError, ErrInternalServerError, "", err)
		return
	}

	status, ok := overrides[svcErr.Code]
	if !ok {
		status, ok = codeStatus[svcErr.Code]
	}
	if !ok {
		status, ok = kindStatus[svcErr.Kind]
	}
	if !ok {
		status = http.StatusBadRequest
	}
	respondWithJSON(w, status, errorResponse{Error: svcErr.Message})
}

// decodeJSON reads a JSON request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
