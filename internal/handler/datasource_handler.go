// internal/handler/datasource_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orchestrate-labs/campaign-chat-backend/internal/connector"
	appErrors "github.com/orchestrate-labs/campaign-chat-backend/internal/errors"
)

type DataSourceHandler struct {
	Connectors *connector.Service
}

func (h *DataSourceHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"sources": connector.AvailableSources()})
}

// Connect binds a source for the calling client. Safe to call repeatedly.
func (h *DataSourceHandler) Connect(w http.ResponseWriter, r *http.Request) {
	sourceID := chi.URLParam(r, "sourceID")

	var body struct {
		ClientID    string            `json:"client_id"`
		Credentials map[string]string `json:"credentials"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.ClientID == "" {
		body.ClientID = "default"
	}

	binding, err := h.Connectors.Connect(r.Context(), body.ClientID, sourceID, body.Credentials)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]any{
		"success":       true,
		"source_id":     sourceID,
		"connection_id": binding.ConnectionID,
		"real_data":     binding.RealData,
		"status":        "connected",
	})
}

func (h *DataSourceHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = "default"
	}
	writeJSON(w, map[string]any{"connections": h.Connectors.Connections(clientID)})
}

func (h *DataSourceHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	sourceID := chi.URLParam(r, "sourceID")
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = "default"
	}

	if err := h.Connectors.Disconnect(clientID, sourceID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"success": true, "message": "Data source disconnected"})
}

// GetData fetches normalized records from a connected source.
func (h *DataSourceHandler) GetData(w http.ResponseWriter, r *http.Request) {
	sourceID := chi.URLParam(r, "sourceID")
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = "default"
	}

	records, err := h.Connectors.Fetch(r.Context(), clientID, sourceID)
	if err != nil {
		var notConnected *appErrors.ErrNotConnected
		if errors.As(err, &notConnected) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"data": records})
}
