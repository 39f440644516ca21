package queue

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPublishWithoutSubscriberFails(t *testing.T) {
	q := NewInMemoryQueue()

	if err := q.Publish("orphan_topic", 1); err == nil {
		t.Fatal("expected error when no subscribers exist")
	}
}

func TestPublishDeliversToSubscriber(t *testing.T) {
	q := NewInMemoryQueue()

	var wg sync.WaitGroup
	wg.Add(1)
	var got any
	if err := q.Subscribe(TopicCampaignExecutions, func(payload any) error {
		got = payload
		wg.Done()
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := q.Publish(TopicCampaignExecutions, 42); err != nil {
		t.Fatal(err)
	}
	wg.Wait()

	if got != 42 {
		t.Fatalf("expected payload 42, got %v", got)
	}
}

func TestPublishRetriesUntilSuccess(t *testing.T) {
	q := NewInMemoryQueue()

	var attempts int32
	var wg sync.WaitGroup
	wg.Add(1)
	if err := q.Subscribe(TopicCampaignExecutions, func(payload any) error {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			return errors.New("transient failure")
		}
		wg.Done()
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := q.Publish(TopicCampaignExecutions, 7); err != nil {
		t.Fatal(err)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestPublishGivesUpAfterMaxRetries(t *testing.T) {
	q := NewInMemoryQueue()

	var attempts int32
	if err := q.Subscribe(TopicCampaignExecutions, func(payload any) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("permanent failure")
	}); err != nil {
		t.Fatal(err)
	}

	if err := q.Publish(TopicCampaignExecutions, 7); err != nil {
		t.Fatal(err)
	}

	// initial attempt + 3 retries with backoff (500+1000+1500ms)
	deadline := time.Now().Add(6 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(&attempts) >= 4 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if got := atomic.LoadInt32(&attempts); got != 4 {
		t.Fatalf("expected 4 attempts (1 + 3 retries), got %d", got)
	}
	// No further attempts after the retry budget is spent.
	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&attempts); got != 4 {
		t.Fatalf("handler ran again after giving up: %d attempts", got)
	}
}

func TestMultipleSubscribersEachReceive(t *testing.T) {
	q := NewInMemoryQueue()

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		if err := q.Subscribe(TopicCampaignExecutions, func(payload any) error {
			wg.Done()
			return nil
		}); err != nil {
			t.Fatal(err)
		}
	}

	if err := q.Publish(TopicCampaignExecutions, 1); err != nil {
		t.Fatal(err)
	}
	wg.Wait()
}
