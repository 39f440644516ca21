// internal/service/worker.go
package service

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/orchestrate-labs/campaign-chat-backend/internal/model"
	"github.com/orchestrate-labs/campaign-chat-backend/internal/queue"
)

// ExecutionStore defines the persistence the send worker needs.
type ExecutionStore interface {
	GetByID(id int) (*model.ExecutionRecord, error)
	Update(rec *model.ExecutionRecord) error
}

// SendFunc delivers one rendered message to n recipients on a channel.
type SendFunc func(channel, content string, recipients int) error

// Worker drains execution-record ids from JobChan and sends them.
type Worker struct {
	ExecutionRepo ExecutionStore
	JobChan       <-chan int
	SendFunc      SendFunc
}

func NewWorker(repo ExecutionStore, jobChan <-chan int, sendFunc SendFunc) *Worker {
	return &Worker{
		ExecutionRepo: repo,
		JobChan:       jobChan,
		SendFunc:      sendFunc,
	}
}

// Start processes jobs until JobChan closes.
func (w *Worker) Start() {
	for jobID := range w.JobChan {
		rec, err := w.ExecutionRepo.GetByID(jobID)
		if err != nil {
			log.Println("⚠️ failed to load execution record:", err)
			continue
		}
		if rec == nil {
			log.Println("⚠️ execution record not found:", jobID)
			continue
		}

		if err := w.SendFunc(rec.Channel, rec.Message, rec.Recipients); err != nil {
			rec.Status = "failed"
			rec.LastError = err.Error()
			rec.RetryCount++
		} else {
			rec.Status = "sent"
			rec.LastError = ""
		}

		if err := w.ExecutionRepo.Update(rec); err != nil {
			log.Println("⚠️ failed to update execution record:", err)
		}
	}
}

// StartExecutionSubscriber wires campaign execution onto the in-process
// queue; used when no broker is configured.
func StartExecutionSubscriber(q queue.Queue, repo ExecutionStore, send SendFunc) {
	go func() {
		err := q.Subscribe(queue.TopicCampaignExecutions, func(payload any) error {
			recID, ok := payload.(int)
			if !ok {
				log.Println("⚠️ invalid payload type, expected int")
				return nil
			}

			rec, err := repo.GetByID(recID)
			if err != nil {
				return err
			}
			if rec == nil {
				return nil
			}

			if err := send(rec.Channel, rec.Message, rec.Recipients); err != nil {
				rec.Status = "failed"
				rec.LastError = err.Error()
				rec.RetryCount++
				if updateErr := repo.Update(rec); updateErr != nil {
					log.Println("⚠️ failed to update execution record:", updateErr)
				}
				return err // triggers queue retry
			}

			rec.Status = "sent"
			rec.LastError = ""
			return repo.Update(rec)
		})
		if err != nil {
			log.Println("⚠️ failed to subscribe for campaign executions:", err)
		}
	}()
}

// MockSend simulates channel delivery with 90% success.
func MockSend(channel, content string, recipients int) error {
	if rand.Float64() < 0.9 {
		log.Printf("📤 %s send to %d recipients ok", channel, recipients)
		return nil
	}
	return fmt.Errorf("mock %s send failed", channel)
}
