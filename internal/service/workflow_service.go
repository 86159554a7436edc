package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicflo/report-service/internal/domain"
	"github.com/civicflo/report-service/internal/events"
	"github.com/civicflo/report-service/internal/repository"
	"github.com/civicflo/report-service/pkg/util"
)

func invalidStatusError(raw string) error {
	return util.NewInvalidTransition("unrecognized status", map[string]any{"status": raw})
}

// WorkflowService validates and applies status transitions and computes the
// reward signal for fixes. The reward is an output of the call, never ticket
// state, and moving an already-Fixed ticket to Fixed does not re-award.
type WorkflowService struct {
	store        repository.TicketStore
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	rewardPoints int
	now          func() time.Time
}

// NewWorkflowService constructs the status workflow.
func NewWorkflowService(store repository.TicketStore, dispatcher events.Dispatcher, logger *zap.Logger, fixedRewardPoints int) *WorkflowService {
	return &WorkflowService{
		store:        store,
		dispatcher:   dispatcher,
		logger:       logger,
		rewardPoints: fixedRewardPoints,
		now:          time.Now,
	}
}

// UpdateStatus normalizes and applies the requested status. It returns the
// updated ticket and the points awarded (0 unless this call moved the ticket
// into Fixed for the first time).
func (s *WorkflowService) UpdateStatus(ctx context.Context, ticketID, rawStatus string) (*domain.Ticket, int, error) {
	status, ok := domain.ParseStatus(rawStatus)
	if !ok {
		// Unrecognized value: the ticket stays untouched. Parsing here at
		// the boundary keeps normalization out of the store backends.
		return nil, 0, invalidStatusError(rawStatus)
	}

	ticket, prev, err := s.store.UpdateStatus(ctx, ticketID, status, s.now())
	if err != nil {
		return nil, 0, err
	}

	reward := 0
	if status == domain.StatusFixed && prev != domain.StatusFixed {
		reward = s.rewardPoints
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.TicketID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus:    prev,
			NewStatus:    status,
			RewardPoints: reward,
		},
	})
	s.logger.Info("ticket status updated",
		zap.String("ticket_id", ticket.TicketID),
		zap.String("from", string(prev)),
		zap.String("to", string(status)),
		zap.Int("reward_points", reward))
	return ticket, reward, nil
}

// MarkFixed moves the ticket to Fixed through the same transition path.
func (s *WorkflowService) MarkFixed(ctx context.Context, ticketID string) (*domain.Ticket, int, error) {
	return s.UpdateStatus(ctx, ticketID, string(domain.StatusFixed))
}

func (s *WorkflowService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	_ = s.dispatcher.Publish(ctx, event)
}
