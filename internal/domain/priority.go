package domain

import "time"

// Priority scoring weights and saturation caps.
const (
	severityWeight = 0.5
	voteWeight     = 0.3
	ageWeight      = 0.2

	// VoteCap saturates the vote contribution.
	VoteCap = 20
	// AgeCap saturates the age contribution.
	AgeCap = 48 * time.Hour
)

// PriorityScore combines severity, vote count and ticket age into a
// normalized urgency value in [0,1]. It depends on ticket fields only, so
// every store backend produces identical scores for identical tickets.
func PriorityScore(severity float64, votes int, createdAt, now time.Time) float64 {
	voteFactor := float64(votes) / VoteCap
	if voteFactor > 1 {
		voteFactor = 1
	}
	if voteFactor < 0 {
		voteFactor = 0
	}

	age := now.Sub(createdAt)
	if age < 0 {
		age = 0
	}
	ageFactor := float64(age) / float64(AgeCap)
	if ageFactor > 1 {
		ageFactor = 1
	}

	score := severityWeight*severity + voteWeight*voteFactor + ageWeight*ageFactor
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Rescore recomputes the ticket's priority in place. Call it on creation
// and after every vote increment; status changes alone do not rescore.
func (t *Ticket) Rescore(now time.Time) {
	t.PriorityScore = PriorityScore(t.Severity, t.Votes, t.CreatedAt, now)
}
