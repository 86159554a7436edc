package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/civicflo/report-service/internal/domain"
	"github.com/civicflo/report-service/internal/repository"
)

func TestSeedDemo(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewSeedService(store, zap.NewNop())

	count, err := svc.SeedDemo(context.Background())
	if err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
	if count != 4 {
		t.Errorf("seeded %d tickets, want 4", count)
	}

	list, err := store.ListByPriority(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 4 {
		t.Fatalf("store has %d tickets, want 4", len(list))
	}

	for _, ticket := range list {
		if ticket.TicketID == "" {
			t.Error("seeded ticket missing id")
		}
		if ticket.PriorityScore <= 0 || ticket.PriorityScore > 1 {
			t.Errorf("ticket %q priority %v outside (0,1]", ticket.Type, ticket.PriorityScore)
		}
		if want := domain.SeverityFor(ticket.Type); ticket.Severity != want {
			t.Errorf("ticket %q severity %v, want %v from table", ticket.Type, ticket.Severity, want)
		}
		if !ticket.Status.Valid() {
			t.Errorf("ticket %q has invalid status %q", ticket.Type, ticket.Status)
		}
	}

	// The 25-vote two-day-old traffic light outranks everything else.
	if list[0].Type != domain.IssueBrokenTrafficLight {
		t.Errorf("top priority ticket is %q, want broken_traffic_light", list[0].Type)
	}
}
