package ws

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	appErrors "github.com/orchestrate-labs/campaign-chat-backend/internal/errors"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
)

// captureTransport records delivered events in memory
type captureTransport struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (t *captureTransport) Send(event Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail {
		return errors.New("transport closed")
	}
	t.events = append(t.events, event)
	return nil
}

func (t *captureTransport) delivered() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

func TestRegisterIdempotent(t *testing.T) {
	r := NewRegistry()

	first := r.Register("client-1")
	second := r.Register("client-1")

	if first != second {
		t.Fatal("expected the same session for repeated register")
	}
}

func TestRecordPreservesArrivalOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("client-1")

	for i := 0; i < 20; i++ {
		msg := model.Message{Sender: model.SenderUser, Content: fmt.Sprintf("msg-%d", i), Kind: model.KindText}
		if err := r.Record("client-1", msg); err != nil {
			t.Fatal("record failed:", err)
		}
	}

	history, err := r.History("client-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 20 {
		t.Fatalf("expected 20 messages, got %d", len(history))
	}
	for i, m := range history {
		if m.Content != fmt.Sprintf("msg-%d", i) {
			t.Errorf("position %d holds %q", i, m.Content)
		}
	}
}

func TestRecordUnknownSession(t *testing.T) {
	r := NewRegistry()

	err := r.Record("never-registered", model.Message{Content: "hi"})

	var unknown *appErrors.ErrUnknownSession
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownSession, got %v", err)
	}
}

func TestDeliverWithoutTransportDropsEvent(t *testing.T) {
	r := NewRegistry()
	r.Register("client-1")

	// No transport attached: must not panic and must not queue for replay.
	r.Deliver("client-1", Event{Type: "ai_response", Content: "lost"})

	tr := &captureTransport{}
	r.Attach("client-1", tr)
	if got := tr.delivered(); len(got) != 0 {
		t.Fatalf("expected no replayed events, got %d", len(got))
	}

	r.Deliver("client-1", Event{Type: "ai_response", Content: "live"})
	got := tr.delivered()
	if len(got) != 1 || got[0].Content != "live" {
		t.Fatalf("expected only the live event, got %+v", got)
	}
}

func TestDeliverAfterDetachIsNoOp(t *testing.T) {
	r := NewRegistry()
	tr := &captureTransport{}
	r.Attach("client-1", tr)
	r.Detach("client-1")

	r.Deliver("client-1", Event{Type: "ai_response", Content: "late"})

	if got := tr.delivered(); len(got) != 0 {
		t.Fatalf("expected no delivery after detach, got %d", len(got))
	}

	// History survives the detach.
	if err := r.Record("client-1", model.Message{Content: "still here"}); err != nil {
		t.Fatal("session should survive detach:", err)
	}
}

func TestFailedDeliveryDetachesTransport(t *testing.T) {
	r := NewRegistry()
	tr := &captureTransport{fail: true}
	r.Attach("client-1", tr)

	r.Deliver("client-1", Event{Type: "ai_response", Content: "x"})

	if ids := r.ActiveClients(); len(ids) != 0 {
		t.Fatalf("expected broken transport to be detached, active: %v", ids)
	}
}

func TestNoCrossClientLeak(t *testing.T) {
	r := NewRegistry()
	r.Register("alice")
	r.Register("bob")

	if err := r.Record("alice", model.Message{Content: "for alice"}); err != nil {
		t.Fatal(err)
	}
	if err := r.AddCampaign("alice", model.Campaign{CampaignID: "c-1", Name: "A"}); err != nil {
		t.Fatal(err)
	}

	bobHistory, err := r.History("bob")
	if err != nil {
		t.Fatal(err)
	}
	if len(bobHistory) != 0 {
		t.Fatalf("bob sees %d of alice's messages", len(bobHistory))
	}

	bobCampaigns, err := r.Campaigns("bob")
	if err != nil {
		t.Fatal(err)
	}
	if len(bobCampaigns) != 0 {
		t.Fatalf("bob sees %d of alice's campaigns", len(bobCampaigns))
	}
}
