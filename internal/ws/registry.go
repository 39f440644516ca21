// internal/ws/registry.go
package ws

import (
	"log"
	"sync"

	appErrors "github.com/orchestrate-labs/campaign-chat-backend/internal/errors"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
)

// Event is the envelope pushed to a client over its transport.
type Event struct {
	Type      string          `json:"type"` // ai_response, campaign_generated, error
	Content   string          `json:"content,omitempty"`
	Campaign  *model.Campaign `json:"campaign,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// Transport is an attached client connection. Send must not block the
// registry; implementations buffer or drop.
type Transport interface {
	Send(event Event) error
}

// Session holds one client's conversational state: ordered message history,
// generated campaigns and the currently attached transport.
type Session struct {
	ClientID string

	mu        sync.Mutex
	messages  []model.Message
	campaigns []model.Campaign
	transport Transport
}

// Registry maps client ids to live sessions. All mutations are confined to
// the session keyed by client id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register creates the session for a client id if absent. Idempotent: a
// second call returns the same session.
func (r *Registry) Register(clientID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[clientID]; ok {
		return s
	}
	s := &Session{ClientID: clientID}
	r.sessions[clientID] = s
	return s
}

func (r *Registry) lookup(clientID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[clientID]
}

// Attach binds a transport to the client's session, registering it first if
// needed.
func (r *Registry) Attach(clientID string, t Transport) *Session {
	s := r.Register(clientID)
	s.mu.Lock()
	s.transport = t
	s.mu.Unlock()
	return s
}

// Detach drops the transport. History and campaigns are retained for the
// process lifetime so a reconnecting client resumes the same session.
func (r *Registry) Detach(clientID string) {
	if s := r.lookup(clientID); s != nil {
		s.mu.Lock()
		s.transport = nil
		s.mu.Unlock()
	}
}

// Record appends a message to the session history. Fails with
// UnknownSession if the client was never registered.
func (r *Registry) Record(clientID string, msg model.Message) error {
	s := r.lookup(clientID)
	if s == nil {
		return appErrors.NewUnknownSession(clientID)
	}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return nil
}

// AddCampaign appends a generated campaign to the session.
func (r *Registry) AddCampaign(clientID string, c model.Campaign) error {
	s := r.lookup(clientID)
	if s == nil {
		return appErrors.NewUnknownSession(clientID)
	}
	s.mu.Lock()
	s.campaigns = append(s.campaigns, c)
	s.mu.Unlock()
	return nil
}

// Deliver pushes an event to the client's transport. With no transport
// attached the event is dropped; sessions are best-effort, not durable.
func (r *Registry) Deliver(clientID string, event Event) {
	s := r.lookup(clientID)
	if s == nil {
		return
	}

	s.mu.Lock()
	t := s.transport
	s.mu.Unlock()
	if t == nil {
		return
	}

	if err := t.Send(event); err != nil {
		// Connection is going away; drop it so later delivers no-op.
		log.Printf("⚠️ delivery to %s failed, detaching: %v", clientID, err)
		r.Detach(clientID)
	}
}

// History returns a copy of the session's message history in arrival order.
func (r *Registry) History(clientID string) ([]model.Message, error) {
	s := r.lookup(clientID)
	if s == nil {
		return nil, appErrors.NewUnknownSession(clientID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

// Campaigns returns a copy of the session's generated campaigns.
func (r *Registry) Campaigns(clientID string) ([]model.Campaign, error) {
	s := r.lookup(clientID)
	if s == nil {
		return nil, appErrors.NewUnknownSession(clientID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Campaign, len(s.campaigns))
	copy(out, s.campaigns)
	return out, nil
}

// ActiveClients lists the client ids with an attached transport.
func (r *Registry) ActiveClients() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := []string{}
	for id, s := range r.sessions {
		s.mu.Lock()
		attached := s.transport != nil
		s.mu.Unlock()
		if attached {
			ids = append(ids, id)
		}
	}
	return ids
}
