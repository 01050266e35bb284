package events

import (
	"context"
	"time"

	"github.com/MPanduranga55/Contact-Book/internal/domain"
)

const (
	TypeContactCreated = "contact.created"
	TypeContactDeleted = "contact.deleted"
)

// ContactEvent 联系人变更事件，供下游订阅
type ContactEvent struct {
	Type       string    `json:"type"`
	ContactID  int64     `json:"contact_id"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event ContactEvent) error
}

// NewContactCreated builds a created event from the persisted row.
func NewContactCreated(c *domain.Contact) ContactEvent {
	return ContactEvent{
		Type:       TypeContactCreated,
		ContactID:  c.ID,
		Email:      c.Email,
		OccurredAt: time.Now().UTC(),
	}
}

// NewContactDeleted builds a deleted event. Only the id is known at delete time.
func NewContactDeleted(id int64) ContactEvent {
	return ContactEvent{
		Type:       TypeContactDeleted,
		ContactID:  id,
		OccurredAt: time.Now().UTC(),
	}
}

// NopPublisher drops every event (EVENTS_BACKEND=none).
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ContactEvent) error { return nil }
