// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"curator/internal/adapter/sentiment"
	"curator/internal/domain/engagement"
	"curator/internal/service/curation"
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, logger *log.Logger, code int, message string, err error) {
	response := map[string]string{"error": message}

	if err != nil && code >= 500 && logger != nil {
		logger.Error("HTTP error", "code", code, "message", message, "err", err)
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}

// respondWithAnalysisError maps an analysis failure to a status code and reason
func respondWithAnalysisError(w http.ResponseWriter, logger *log.Logger, err error) {
	code := http.StatusInternalServerError
	message := engagement.Reason(err)

	switch {
	case errors.Is(err, engagement.ErrInvalidRange), errors.Is(err, engagement.ErrInvalidHorizon):
		code = http.StatusBadRequest
	case errors.Is(err, engagement.ErrStoreUnavailable):
		code = http.StatusServiceUnavailable
	case errors.Is(err, engagement.ErrSchemaMismatch):
		code = http.StatusBadGateway
	case engagement.Recoverable(err):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, curation.ErrNoClassifier):
		code = http.StatusServiceUnavailable
		message = "sentiment classifier not configured"
	case errors.Is(err, sentiment.ErrUnavailable):
		code = http.StatusBadGateway
		message = "sentiment service unavailable"
	}

	respondWithError(w, logger, code, message, err)
}
