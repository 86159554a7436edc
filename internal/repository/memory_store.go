package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/civicflo/report-service/internal/domain"
	"github.com/civicflo/report-service/pkg/util"
)

// memoryStore is the volatile TicketStore backend used when no database is
// reachable at startup. State lives for the process lifetime only; this is
// an intentional durability trade-off, not a bug. All mutations share one
// mutex, and tickets are copied on the way in and out so readers never
// observe a partially updated ticket.
type memoryStore struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
}

// NewMemoryStore builds an empty in-process TicketStore.
func NewMemoryStore() TicketStore {
	return &memoryStore{tickets: make(map[string]*domain.Ticket)}
}

func (s *memoryStore) Name() string {
	return "memory"
}

func (s *memoryStore) Create(_ context.Context, ticket *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tickets[ticket.TicketID]; exists {
		return util.NewConflict("ticket id already exists", map[string]any{"ticket_id": ticket.TicketID})
	}
	stored := *ticket
	s.tickets[ticket.TicketID] = &stored
	return nil
}

func (s *memoryStore) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, util.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	copied := *ticket
	return &copied, nil
}

func (s *memoryStore) FindOpenNear(_ context.Context, point domain.Point, radiusMeters float64) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best     *domain.Ticket
		bestDist float64
	)
	for _, ticket := range s.tickets {
		if !ticket.Status.IsOpen() {
			continue
		}
		dist := point.DistanceMeters(ticket.Location)
		if dist > radiusMeters {
			continue
		}
		if best == nil || dist < bestDist ||
			(dist == bestDist && ticket.CreatedAt.Before(best.CreatedAt)) {
			best = ticket
			bestDist = dist
		}
	}
	if best == nil {
		return nil, nil
	}
	copied := *best
	return &copied, nil
}

func (s *memoryStore) AddVote(_ context.Context, id string, now time.Time) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, util.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	ticket.Votes++
	ticket.Rescore(now)
	ticket.UpdatedAt = now

	copied := *ticket
	return &copied, nil
}

func (s *memoryStore) UpdateStatus(_ context.Context, id string, status domain.Status, now time.Time) (*domain.Ticket, domain.Status, error) {
	if !status.Valid() {
		return nil, "", util.NewInvalidTransition("unrecognized status", map[string]any{"status": string(status)})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, "", util.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	prev := ticket.Status
	ticket.Status = status
	ticket.UpdatedAt = now

	copied := *ticket
	return &copied, prev, nil
}

func (s *memoryStore) ListByPriority(_ context.Context) ([]domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Ticket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		result = append(result, *ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].PriorityScore != result[j].PriorityScore {
			return result[i].PriorityScore > result[j].PriorityScore
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *memoryStore) InsertMany(_ context.Context, tickets []domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range tickets {
		if _, exists := s.tickets[tickets[i].TicketID]; exists {
			return util.NewConflict("ticket id already exists", map[string]any{"ticket_id": tickets[i].TicketID})
		}
	}
	for i := range tickets {
		stored := tickets[i]
		s.tickets[stored.TicketID] = &stored
	}
	return nil
}
