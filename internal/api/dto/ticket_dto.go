package dto

import "github.com/civicflo/report-service/internal/domain"

// SubmitReportRequest is the JSON-only submission shape used by clients
// without multipart support. No image means the fallback classification.
type SubmitReportRequest struct {
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Description string   `json:"description"`
}

// SubmitReportResponse returns the resulting ticket and the dedup outcome.
type SubmitReportResponse struct {
	Message     string        `json:"message"`
	Ticket      domain.Ticket `json:"ticket"`
	IsDuplicate bool          `json:"isDuplicate"`
}

// UpdateStatusRequest payload for kanban moves.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatusResponse returns the updated ticket and any reward awarded.
type UpdateStatusResponse struct {
	Message      string        `json:"message"`
	Ticket       domain.Ticket `json:"ticket"`
	RewardPoints int           `json:"rewardPoints"`
}

// SeedResponse reports how many demo tickets were inserted.
type SeedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}
