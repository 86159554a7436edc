package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicflo/report-service/internal/domain"
	"github.com/civicflo/report-service/internal/repository"
)

// SeedService bulk-inserts a small deterministic demo ticket set. It is a
// demo and test convenience, not part of the triage contract.
type SeedService struct {
	store  repository.TicketStore
	logger *zap.Logger
	now    func() time.Time
}

// NewSeedService constructs the seeder.
func NewSeedService(store repository.TicketStore, logger *zap.Logger) *SeedService {
	return &SeedService{store: store, logger: logger, now: time.Now}
}

// SeedDemo inserts the demo tickets and returns how many were created.
func (s *SeedService) SeedDemo(ctx context.Context) (int, error) {
	now := s.now()
	tickets := demoTickets(now)
	for i := range tickets {
		tickets[i].Rescore(now)
	}
	if err := s.store.InsertMany(ctx, tickets); err != nil {
		return 0, err
	}
	s.logger.Info("demo data seeded", zap.Int("count", len(tickets)))
	return len(tickets), nil
}

// demoTickets is a fixed set around lower Manhattan with pre-assigned
// categories, ages and vote counts.
func demoTickets(now time.Time) []domain.Ticket {
	build := func(issueType domain.IssueType, description, imageURL string, lng, lat float64, votes int, status domain.Status, aiConfidence float64, age time.Duration) domain.Ticket {
		return domain.Ticket{
			TicketID:     uuid.NewString(),
			ImageURL:     imageURL,
			Type:         issueType,
			Description:  description,
			Location:     domain.Point{Longitude: lng, Latitude: lat},
			Severity:     domain.SeverityFor(issueType),
			Votes:        votes,
			AIConfidence: aiConfidence,
			Status:       status,
			CreatedAt:    now.Add(-age),
			UpdatedAt:    now,
		}
	}

	return []domain.Ticket{
		build(domain.IssuePothole, "Deep pothole on main street",
			"https://images.unsplash.com/photo-1515162816999-a0c47dc192f7?auto=format&fit=crop&q=80&w=300&h=200",
			-74.0060, 40.7128, 12, domain.StatusInProgress, 0.95, 24*time.Hour),
		build(domain.IssueIllegalParking, "Car blocking hydrant",
			"https://images.unsplash.com/photo-1557002665-c99e195709dc?auto=format&fit=crop&q=80&w=300&h=200",
			-74.0080, 40.7138, 5, domain.StatusReceived, 0.88, time.Hour),
		build(domain.IssueBrokenTrafficLight, "Red light not working",
			"https://plus.unsplash.com/premium_photo-1664304958178-54c3384f67c9?auto=format&fit=crop&q=80&w=300&h=200",
			-74.0040, 40.7118, 25, domain.StatusVerifying, 0.99, 48*time.Hour),
		build(domain.IssueLitter, "Overflowing trash bin",
			"https://images.unsplash.com/photo-1530587191325-3db32d826c18?auto=format&fit=crop&q=80&w=300&h=200",
			-74.0070, 40.7148, 3, domain.StatusReceived, 0.85, 30*time.Minute),
	}
}
