package service_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/queue"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/service"
)

func TestWorkerMarksRecordSent(t *testing.T) {
	repo := newMockExecutionRepo()
	rec := &model.ExecutionRecord{
		ExecutionID: "exec-1",
		CampaignID:  "c-1",
		Channel:     model.ChannelEmail,
		Recipients:  1000,
		Message:     "Hello!",
	}
	require.NoError(t, repo.Create(rec))

	var sent []string
	jobChan := make(chan int, 1)
	worker := service.NewWorker(repo, jobChan, func(channel, content string, recipients int) error {
		sent = append(sent, channel)
		return nil
	})

	jobChan <- rec.ID
	close(jobChan)
	worker.Start() // synchronous: returns when jobChan drains

	assert.Equal(t, []string{model.ChannelEmail}, sent)

	updated, err := repo.GetByID(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "sent", updated.Status)
	assert.Empty(t, updated.LastError)
}

func TestWorkerMarksRecordFailed(t *testing.T) {
	repo := newMockExecutionRepo()
	rec := &model.ExecutionRecord{
		ExecutionID: "exec-1",
		Channel:     model.ChannelSMS,
		Recipients:  500,
		Message:     "Hi",
	}
	require.NoError(t, repo.Create(rec))

	jobChan := make(chan int, 1)
	worker := service.NewWorker(repo, jobChan, func(channel, content string, recipients int) error {
		return errors.New("carrier rejected")
	})

	jobChan <- rec.ID
	close(jobChan)
	worker.Start() // synchronous: returns when jobChan drains

	updated, err := repo.GetByID(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "failed", updated.Status)
	assert.Equal(t, "carrier rejected", updated.LastError)
	assert.Equal(t, 1, updated.RetryCount)
}

func TestWorkerSkipsMissingRecord(t *testing.T) {
	repo := newMockExecutionRepo()

	called := false
	jobChan := make(chan int, 1)
	worker := service.NewWorker(repo, jobChan, func(channel, content string, recipients int) error {
		called = true
		return nil
	})

	jobChan <- 99
	close(jobChan)
	worker.Start()

	assert.False(t, called, "send must not run for a missing record")
}

func TestExecutionSubscriberSendsQueuedJob(t *testing.T) {
	repo := newMockExecutionRepo()
	rec := &model.ExecutionRecord{
		ExecutionID: "exec-1",
		Channel:     model.ChannelPush,
		Recipients:  1500,
		Message:     "Your cart misses you.",
	}
	require.NoError(t, repo.Create(rec))

	q := queue.NewInMemoryQueue()

	var wg sync.WaitGroup
	wg.Add(1)
	service.StartExecutionSubscriber(q, repo, func(channel, content string, recipients int) error {
		defer wg.Done()
		assert.Equal(t, model.ChannelPush, channel)
		assert.Equal(t, 1500, recipients)
		return nil
	})

	// Subscribe runs on a goroutine; wait for the handler to be in place.
	var err error
	for i := 0; i < 200; i++ {
		if err = q.Publish(queue.TopicCampaignExecutions, rec.ID); err == nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, err)
	wg.Wait()
}
