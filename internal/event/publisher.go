package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RecommendationPublisher publishes recommendation events to RabbitMQ
type RecommendationPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

// NewRecommendationPublisher creates a new recommendation event publisher
func NewRecommendationPublisher(conn *RabbitMQConnection) *RecommendationPublisher {
	return &RecommendationPublisher{
		conn:            conn,
		lastPublishTime: time.Now(),
	}
}

// PublishEvent publishes an event to the recommendation_events queue
func (p *RecommendationPublisher) PublishEvent(ctx context.Context, event RecommendationEvent) error {
	// Ensure the queue exists
	_, err := p.conn.Channel.QueueDeclare(
		RecommendationQueue, // queue name
		true,                // durable
		false,               // delete when unused
		false,               // exclusive
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to marshal recommendation event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",                  // exchange
		RecommendationQueue, // routing key (queue name)
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish recommendation event: %w", err)
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()

	slog.Info("Recommendation event published",
		"queue", RecommendationQueue,
		"event_type", event.EventType,
		"request_id", event.RequestID,
	)

	return nil
}

// GetMetrics returns publisher metrics
func (p *RecommendationPublisher) GetMetrics() map[string]any {
	return map[string]any{
		"messages_published": p.messagesPublished,
		"messages_failed":    p.messagesFailed,
		"last_publish_time":  p.lastPublishTime,
		"queue":              RecommendationQueue,
	}
}

// HealthCheck returns the health status of the publisher
func (p *RecommendationPublisher) HealthCheck() PublisherHealthStatus {
	isHealthy := p.conn != nil && p.conn.Connection != nil && !p.conn.Connection.IsClosed()

	return PublisherHealthStatus{
		IsHealthy:         isHealthy,
		MessagesPublished: p.messagesPublished,
		MessagesFailed:    p.messagesFailed,
		LastPublishTime:   p.lastPublishTime,
		Queue:             RecommendationQueue,
	}
}

// PublisherHealthStatus represents the health status of the publisher
type PublisherHealthStatus struct {
	IsHealthy         bool      `json:"is_healthy"`
	MessagesPublished int64     `json:"messages_published"`
	MessagesFailed    int64     `json:"messages_failed"`
	LastPublishTime   time.Time `json:"last_publish_time"`
	Queue             string    `json:"queue"`
}
