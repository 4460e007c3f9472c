package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
	}
}

// TicketUsed is published once per ticket, in the transaction that flips the used flag.
type TicketUsed struct {
	Header   EventHeader `json:"header"`
	TicketID string      `json:"ticket_id"`
	UsedAt   time.Time   `json:"used_at"`
}
