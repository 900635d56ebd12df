// internal/adapter/events/publisher.go

package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"curator/internal/domain/engagement"
)

// Conn is the subset of *nats.Conn used for publishing
type Conn interface {
	Publish(subj string, data []byte) error
}

// ReportEvent is published every time a trend report is built
type ReportEvent struct {
	ID          string                 `json:"id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Source      string                 `json:"source"`
	From        *time.Time             `json:"from,omitempty"`
	To          *time.Time             `json:"to,omitempty"`
	Records     int                    `json:"records"`
	Report      engagement.TrendReport `json:"report"`
}

// Publisher publishes report events on <topic>.report.built
type Publisher struct {
	conn  Conn
	topic string
}

// NewPublisher creates a new publisher. A nil conn disables publishing.
func NewPublisher(conn Conn, topic string) *Publisher {
	return &Publisher{
		conn:  conn,
		topic: topic,
	}
}

// ReportSubject returns the subject report events are published on
func (p *Publisher) ReportSubject() string {
	return fmt.Sprintf("%s.report.built", p.topic)
}

// PublishReport serializes and publishes a report event, assigning an ID if missing
func (p *Publisher) PublishReport(event ReportEvent) error {
	if p == nil || p.conn == nil {
		return nil
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.GeneratedAt.IsZero() {
		event.GeneratedAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling report event: %w", err)
	}

	return p.conn.Publish(p.ReportSubject(), data)
}
