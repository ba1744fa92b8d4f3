package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"finoffice-backend/internal/metrics"
	"finoffice-backend/internal/services"
	"finoffice-backend/pkg/utils"
)

// TextGenerator is the narrow slice of the AI service the handler needs.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type AIHandler struct {
	Generator TextGenerator
}

// NewAIHandler accepts a nil generator; requests then fail with a clear
// configuration error instead of a panic.
func NewAIHandler(g TextGenerator) *AIHandler {
	return &AIHandler{Generator: g}
}

type aiRequest struct {
	Prompt string `json:"prompt"`
	Type   string `json:"type"` // "text" (default) or "json"
}

type aiResponse struct {
	Success bool            `json:"success"`
	Text    string          `json:"text"`
	Data    json.RawMessage `json:"data"`
}

// Generate proxies a prompt to the configured model and returns the narration.
func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.Generator == nil {
		metrics.AIRequestsTotal.WithLabelValues("unconfigured").Inc()
		utils.Error(w, http.StatusInternalServerError, "AI API key is not configured")
		return
	}

	var req aiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}

	text, err := h.Generator.Generate(r.Context(), req.Prompt)
	if err != nil {
		metrics.AIRequestsTotal.WithLabelValues("error").Inc()
		utils.Error(w, http.StatusBadGateway, "AI generation failed")
		return
	}
	metrics.AIRequestsTotal.WithLabelValues("success").Inc()

	resp := aiResponse{Success: true, Text: text}
	if req.Type == "json" {
		// Best effort: data stays null when the model did not return valid JSON
		if raw, ok := services.ExtractJSON(text); ok {
			resp.Data = raw
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
