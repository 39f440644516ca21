// internal/handler/campaign_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/orchestrate-labs/campaign-chat-backend/internal/errors"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/service"
)

type CampaignHandler struct {
	Service *service.CampaignService
}

// Generate produces a campaign from a chat request plus the caller's
// connected data sources.
func (h *CampaignHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message     string   `json:"message"`
		DataSources []string `json:"data_sources"`
		Channels    []string `json:"channels"`
		ClientID    string   `json:"client_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.ClientID == "" {
		body.ClientID = "default"
	}

	campaign, err := h.Service.Generate(r.Context(), body.ClientID, body.Message, body.DataSources, body.Channels)
	if err != nil {
		var malformed *appErrors.ErrMalformedGeneration
		if errors.As(err, &malformed) {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]any{"success": true, "campaign": campaign})
}

func (h *CampaignHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	channels := []map[string]any{
		{"id": model.ChannelEmail, "name": "Email", "description": "Direct email marketing campaigns", "status": "available"},
		{"id": model.ChannelSMS, "name": "SMS", "description": "Mobile SMS marketing campaigns", "status": "available"},
		{"id": model.ChannelWhatsApp, "name": "WhatsApp", "description": "WhatsApp messaging campaigns", "status": "available"},
		{"id": model.ChannelPush, "name": "Push Notifications", "description": "Mobile app push notification campaigns", "status": "available"},
	}
	writeJSON(w, map[string]any{"channels": channels})
}

// Execute queues a generated campaign's channels for sending.
func (h *CampaignHandler) Execute(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignID")

	var req service.ExecutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Service.Execute(campaignID, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]any{
		"success":      true,
		"execution_id": result.ExecutionID,
		"jobs_queued":  result.JobsQueued,
		"status":       result.Status,
	})
}

func (h *CampaignHandler) History(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")

	campaigns, err := h.Service.History(clientID)
	if err != nil {
		http.Error(w, "failed to fetch campaigns: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"campaigns": campaigns})
}
