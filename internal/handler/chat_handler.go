// internal/handler/chat_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/repository"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/service"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/ws"
)

// ChatHandler exposes the REST chat surface; the websocket path shares the
// same orchestrator.
type ChatHandler struct {
	Registry     *ws.Registry
	Orchestrator *service.Orchestrator
	MessageRepo  repository.MessageRepositoryInterface
}

// SendMessage processes a chat message synchronously and returns the AI
// reply.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message   string `json:"message"`
		ClientID  string `json:"client_id"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.ClientID == "" {
		body.ClientID = "default"
	}

	h.Registry.Register(body.ClientID)

	if err := h.Orchestrator.ProcessMessage(r.Context(), body.ClientID, body.Message, body.Timestamp); err != nil {
		writeJSON(w, map[string]any{"success": false, "error": err.Error()})
		return
	}

	// The orchestrator appends the AI reply to the session; echo the latest
	// one back for the synchronous caller.
	response := ""
	if history, err := h.Registry.History(body.ClientID); err == nil {
		for i := len(history) - 1; i >= 0; i-- {
			if history[i].Sender == model.SenderAI {
				response = history[i].Content
				break
			}
		}
	}

	writeJSON(w, map[string]any{
		"success":   true,
		"response":  response,
		"timestamp": body.Timestamp,
	})
}

// GetHistory returns a client's durable chat history in arrival order.
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")

	history, err := h.MessageRepo.ListByClient(clientID)
	if err != nil {
		http.Error(w, "failed to fetch history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"success": true, "history": history})
}

func (h *ChatHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")

	if err := h.MessageRepo.DeleteByClient(clientID); err != nil {
		http.Error(w, "failed to clear history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"success": true})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
