package queue

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// ExecutionJob is the wire payload for one channel-execution job.
type ExecutionJob struct {
	ExecutionRecordID int `json:"execution_record_id"`
}

// AMQPPublisher publishes execution jobs to RabbitMQ. It satisfies the
// Queue interface on the publishing side; consumption lives in cmd/worker.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Durable queue so jobs survive broker restarts.
	if _, err := ch.QueueDeclare(TopicCampaignExecutions, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: ch}, nil
}

func (p *AMQPPublisher) Publish(topic string, payload any) error {
	recordID, ok := payload.(int)
	if !ok {
		return fmt.Errorf("expected execution record id, got %T", payload)
	}

	body, err := json.Marshal(ExecutionJob{ExecutionRecordID: recordID})
	if err != nil {
		return err
	}

	return p.channel.Publish("", topic, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// Subscribe is not supported on the publisher side; workers consume via
// amqp.Channel.Consume directly.
func (p *AMQPPublisher) Subscribe(topic string, handler func(payload any) error) error {
	return fmt.Errorf("subscribe not supported on AMQP publisher")
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

var _ Queue = (*AMQPPublisher)(nil)
