package domain

import "time"

// Ticket is a single tracked civic issue report.
type Ticket struct {
	TicketID      string    `json:"ticketId"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	Type          IssueType `json:"type"`
	Description   string    `json:"description,omitempty"`
	Location      Point     `json:"location"`
	Severity      float64   `json:"severity"`
	Votes         int       `json:"votes"`
	PriorityScore float64   `json:"priorityScore"`
	AIConfidence  float64   `json:"aiConfidence"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Classification is the normalized outcome of classifying a report image.
type Classification struct {
	Category   IssueType `json:"category"`
	Confidence float64   `json:"confidence"`
	Valid      bool      `json:"valid"`
}
