// internal/server/handlers/feedback.go

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
)

const maxSentimentTexts = 100

// FeedbackHandler handles feedback and sentiment requests
type FeedbackHandler struct {
	analyzer Analyzer
	logger   *log.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(analyzer Analyzer, logger *log.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// GetFeedback returns tone feedback for every record
func (h *FeedbackHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	results, err := h.analyzer.Feedback(r.Context())
	if err != nil {
		respondWithAnalysisError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, results)
}

// GetSuggestion compares positive and negative content
func (h *FeedbackHandler) GetSuggestion(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.analyzer.Suggestion(r.Context())
	if err != nil {
		respondWithAnalysisError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, suggestion)
}

// ClassifyRequest is the body of a sentiment request
type ClassifyRequest struct {
	Texts []string `json:"texts"`
}

// PostSentiment classifies a batch of texts
func (h *FeedbackHandler) PostSentiment(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if len(req.Texts) > maxSentimentTexts {
		respondWithError(w, h.logger, http.StatusBadRequest, "Too many texts", nil)
		return
	}

	results, err := h.analyzer.Classify(r.Context(), req.Texts)
	if err != nil {
		respondWithAnalysisError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, results)
}
