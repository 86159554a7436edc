package events

import (
	"time"

	"github.com/civicflo/report-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketMerged        EventType = "ticket_merged"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Type          domain.IssueType `json:"type"`
	Severity      float64          `json:"severity"`
	PriorityScore float64          `json:"priority_score"`
	AIConfidence  float64          `json:"ai_confidence"`
}

// TicketMergedPayload describes a duplicate report folded into an open ticket.
type TicketMergedPayload struct {
	Votes         int     `json:"votes"`
	PriorityScore float64 `json:"priority_score"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus    domain.Status `json:"old_status"`
	NewStatus    domain.Status `json:"new_status"`
	RewardPoints int           `json:"reward_points,omitempty"`
}
