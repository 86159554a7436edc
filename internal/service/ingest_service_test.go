package service

import (
	"context"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/civicflo/report-service/internal/domain"
	"github.com/civicflo/report-service/internal/events"
	"github.com/civicflo/report-service/internal/repository"
	"github.com/civicflo/report-service/pkg/util"
)

// stubClassifier records calls and returns a fixed classification.
type stubClassifier struct {
	result domain.Classification
	calls  int
}

func (s *stubClassifier) Classify(_ context.Context, _ []byte, _ string) domain.Classification {
	s.calls++
	return s.result
}

func (s *stubClassifier) Fallback() domain.Classification {
	return domain.Classification{Category: domain.IssuePothole, Confidence: 0.75, Valid: true}
}

func newIngestFixture(t *testing.T, cls *stubClassifier) (*IngestService, repository.TicketStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewIngestService(IngestDependencies{
		Store:      store,
		Classifier: cls,
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	}, 10)
	return svc, store
}

func TestSubmitCreatesTicket(t *testing.T) {
	cls := &stubClassifier{result: domain.Classification{
		Category: domain.IssuePothole, Confidence: 0.95, Valid: true,
	}}
	svc, _ := newIngestFixture(t, cls)

	result, err := svc.Submit(context.Background(), SubmitInput{
		ImageURL:  "/uploads/pothole.jpg",
		ImageData: []byte("fake image"),
		Latitude:  40.7128,
		Longitude: -74.0060,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.IsDuplicate {
		t.Fatal("first submission flagged as duplicate")
	}

	ticket := result.Ticket
	if ticket.Type != domain.IssuePothole {
		t.Errorf("type = %q, want pothole", ticket.Type)
	}
	if ticket.Severity != 0.8 {
		t.Errorf("severity = %v, want 0.8", ticket.Severity)
	}
	if ticket.Votes != 1 {
		t.Errorf("votes = %d, want 1", ticket.Votes)
	}
	if ticket.Status != domain.StatusReceived {
		t.Errorf("status = %q, want Received", ticket.Status)
	}
	if ticket.AIConfidence != 0.95 {
		t.Errorf("aiConfidence = %v, want 0.95", ticket.AIConfidence)
	}
	if math.Abs(ticket.PriorityScore-0.415) > 1e-9 {
		t.Errorf("priorityScore = %v, want 0.415", ticket.PriorityScore)
	}
	if cls.calls != 1 {
		t.Errorf("classifier called %d times, want exactly 1", cls.calls)
	}
}

func TestSubmitMergesNearbyDuplicate(t *testing.T) {
	cls := &stubClassifier{result: domain.Classification{
		Category: domain.IssuePothole, Confidence: 0.95, Valid: true,
	}}
	svc, _ := newIngestFixture(t, cls)
	ctx := context.Background()

	first, err := svc.Submit(ctx, SubmitInput{
		ImageData: []byte("img"), Latitude: 40.7128, Longitude: -74.0060,
	})
	if err != nil {
		t.Fatal(err)
	}

	// ~1.4m away, within seconds: folds into the existing ticket.
	second, err := svc.Submit(ctx, SubmitInput{
		ImageData: []byte("img2"), Latitude: 40.71281, Longitude: -74.00601,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !second.IsDuplicate {
		t.Fatal("nearby submission not merged")
	}
	if second.Ticket.TicketID != first.Ticket.TicketID {
		t.Errorf("merged into %q, want %q", second.Ticket.TicketID, first.Ticket.TicketID)
	}
	if second.Ticket.Votes != 2 {
		t.Errorf("votes = %d, want 2", second.Ticket.Votes)
	}
	if math.Abs(second.Ticket.PriorityScore-0.43) > 1e-9 {
		t.Errorf("priorityScore = %v, want 0.43", second.Ticket.PriorityScore)
	}

	// A third report well beyond the radius opens an independent ticket.
	third, err := svc.Submit(ctx, SubmitInput{
		ImageData: []byte("img3"), Latitude: 40.7138, Longitude: -74.0060,
	})
	if err != nil {
		t.Fatal(err)
	}
	if third.IsDuplicate {
		t.Fatal("distant submission merged, want independent ticket")
	}
	if third.Ticket.TicketID == first.Ticket.TicketID {
		t.Error("distant submission reused the existing ticket id")
	}
}

func TestSubmitDuplicateDoesNotMergeIntoFixed(t *testing.T) {
	cls := &stubClassifier{result: domain.Classification{
		Category: domain.IssuePothole, Confidence: 0.95, Valid: true,
	}}
	svc, store := newIngestFixture(t, cls)
	ctx := context.Background()

	first, err := svc.Submit(ctx, SubmitInput{
		ImageData: []byte("img"), Latitude: 40.7128, Longitude: -74.0060,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.UpdateStatus(ctx, first.Ticket.TicketID, domain.StatusFixed, time.Now()); err != nil {
		t.Fatal(err)
	}

	second, err := svc.Submit(ctx, SubmitInput{
		ImageData: []byte("img2"), Latitude: 40.7128, Longitude: -74.0060,
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.IsDuplicate {
		t.Error("report merged into a Fixed ticket, want a fresh one")
	}
}

func TestSubmitWithPriorClassificationSkipsClassifier(t *testing.T) {
	cls := &stubClassifier{}
	svc, _ := newIngestFixture(t, cls)

	fallback := cls.Fallback()
	result, err := svc.Submit(context.Background(), SubmitInput{
		Latitude:       40.7128,
		Longitude:      -74.0060,
		Classification: &fallback,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if cls.calls != 0 {
		t.Errorf("classifier called %d times, want 0", cls.calls)
	}
	if result.Ticket.AIConfidence != 0.75 {
		t.Errorf("aiConfidence = %v, want fallback 0.75", result.Ticket.AIConfidence)
	}
}

func TestSubmitValidation(t *testing.T) {
	cls := &stubClassifier{result: domain.Classification{Category: domain.IssuePothole, Valid: true}}
	svc, store := newIngestFixture(t, cls)
	ctx := context.Background()

	tests := []struct {
		name  string
		input SubmitInput
	}{
		{"latitude out of range", SubmitInput{ImageData: []byte("x"), Latitude: 91, Longitude: 0}},
		{"longitude out of range", SubmitInput{ImageData: []byte("x"), Latitude: 0, Longitude: -181}},
		{"no image and no classification", SubmitInput{Latitude: 40.7128, Longitude: -74.0060}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Submit(ctx, tt.input); !util.IsCode(err, "VALIDATION_FAILED") {
				t.Errorf("Submit = %v, want VALIDATION_FAILED", err)
			}
		})
	}

	// Rejected submissions must leave no side effects.
	list, err := store.ListByPriority(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("store has %d tickets after rejected submissions, want 0", len(list))
	}
	if cls.calls != 0 {
		t.Errorf("classifier called %d times by rejected submissions, want 0", cls.calls)
	}
}
