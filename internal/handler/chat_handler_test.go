package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/service"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/ws"
)

type fakeMessageRepo struct {
	messages []model.Message
	cleared  []string
}

func (f *fakeMessageRepo) Append(msg *model.Message) error {
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeMessageRepo) ListByClient(clientID string) ([]model.Message, error) {
	out := []model.Message{}
	for _, m := range f.messages {
		if m.ClientID == clientID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) DeleteByClient(clientID string) error {
	f.cleared = append(f.cleared, clientID)
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.ClientID != clientID {
			kept = append(kept, m)
		}
	}
	f.messages = kept
	return nil
}

func newChatHandler(aiClient *fakeAI) (*ChatHandler, *fakeMessageRepo) {
	registry := ws.NewRegistry()
	repo := &fakeMessageRepo{}
	h := &ChatHandler{
		Registry: registry,
		Orchestrator: &service.Orchestrator{
			Registry:                  registry,
			AI:                        aiClient,
			Campaigns:                 &service.CampaignService{},
			Connectors:                connectorStub{},
			Messages:                  repo,
			CampaignGenerationEnabled: false,
		},
		MessageRepo: repo,
	}
	return h, repo
}

type connectorStub struct{}

func (connectorStub) ConnectedSources(clientID string) []string { return nil }

func TestSendMessageReturnsReply(t *testing.T) {
	h, _ := newChatHandler(&fakeAI{reply: "Happy to help with your marketing."})

	body := `{"message": "Hello", "client_id": "client-1", "timestamp": "t0"}`
	req := httptest.NewRequest("POST", "/api/chat/message", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.SendMessage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), "Happy to help with your marketing.")
}

func TestSendMessageDefaultsClientID(t *testing.T) {
	h, repo := newChatHandler(&fakeAI{reply: "Hi there."})

	body := `{"message": "Hello"}`
	req := httptest.NewRequest("POST", "/api/chat/message", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.SendMessage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, repo.messages)
	assert.Equal(t, "default", repo.messages[0].ClientID)
}

func TestSendMessageBadBody(t *testing.T) {
	h, _ := newChatHandler(&fakeAI{reply: "x"})

	req := httptest.NewRequest("POST", "/api/chat/message", strings.NewReader("{oops"))
	rec := httptest.NewRecorder()

	h.SendMessage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAndClearHistory(t *testing.T) {
	h, repo := newChatHandler(&fakeAI{})
	repo.messages = []model.Message{
		{ClientID: "client-1", Sender: model.SenderUser, Content: "Hello", Kind: model.KindText},
		{ClientID: "client-1", Sender: model.SenderAI, Content: "Hi!", Kind: model.KindText},
		{ClientID: "other", Sender: model.SenderUser, Content: "private", Kind: model.KindText},
	}

	r := chi.NewRouter()
	r.Get("/api/chat/history/{clientID}", h.GetHistory)
	r.Delete("/api/chat/history/{clientID}", h.ClearHistory)

	req := httptest.NewRequest("GET", "/api/chat/history/client-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello")
	assert.NotContains(t, rec.Body.String(), "private")

	req = httptest.NewRequest("DELETE", "/api/chat/history/client-1", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	remaining, _ := repo.ListByClient("client-1")
	assert.Empty(t, remaining)
}
