package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// Type names a lifecycle event.
type Type string

const (
	TaskCreated          Type = "task_created"
	TaskUpdated          Type = "task_updated"
	ApplicationSubmitted Type = "application_submitted"
	ApplicationApproved  Type = "application_approved"
	ApplicationRejected  Type = "application_rejected"
	TaskVerified         Type = "task_verified"
	TaskCompleted        Type = "task_completed"
	TaskCancelled        Type = "task_cancelled"
	RatingSubmitted      Type = "rating_submitted"
)

// Event is a task lifecycle event published for downstream consumers.
type Event struct {
	Type      Type      `json:"type"`
	TaskID    string    `json:"taskId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher writing to topic. Writes are asynchronous:
// Publish only fails when the event cannot be encoded.
func NewKafkaPublisher(brokers []string, topic string, onError func(error)) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(_ []kafka.Message, err error) {
			if err != nil && onError != nil {
				onError(err)
			}
		},
	}
	return &kafkaPublisher{writer: writer}
}

// Publish sends the event keyed by task id so a task's events stay ordered.
func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TaskID),
		Value: body,
		Time:  event.Timestamp,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                          { return nil }
