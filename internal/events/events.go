// Package events publishes complaint lifecycle events to RabbitMQ.
// Publishing is best effort; a failed publish never undoes the change it describes.
package events

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
)

type Type string

const (
	ComplaintCreated  Type = "complaint.created"
	ComplaintAssigned Type = "complaint.assigned"
	StatusChanged     Type = "complaint.status_changed"
	NoteAdded         Type = "complaint.note_added"
	FeedbackSubmitted Type = "complaint.feedback_submitted"
)

// Event is the JSON message body put on the queue.
type Event struct {
	Type        Type              `json:"type"`
	ComplaintID uint              `json:"complaint_id"`
	ActorID     uint              `json:"actor_id"`
	Action      models.ActionType `json:"action,omitempty"`
	Status      models.Status     `json:"status,omitempty"`
	WorkerID    *uint             `json:"worker_id,omitempty"`
	Department  string            `json:"department,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// New returns an AMQP publisher for url, or Nop when url is empty.
func New(url, queue string) Publisher {
	if url == "" {
		return Nop{}
	}
	return NewAMQPPublisher(url, queue)
}
