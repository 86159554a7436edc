package repository

import (
	"context"
	"time"

	"github.com/civicflo/report-service/internal/domain"
)

// TicketStore abstracts ticket persistence. Two interchangeable backends
// implement it: the durable Postgres store and the volatile in-memory store
// used when no database is reachable at startup. The contract is identical
// across backends.
type TicketStore interface {
	// Create persists a new ticket. It fails with a CONFLICT error when the
	// ticket id collides with an existing one.
	Create(ctx context.Context, ticket *domain.Ticket) error

	// GetByID returns the ticket or a NOT_FOUND error.
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)

	// FindOpenNear returns the nearest ticket in an open status within
	// radiusMeters of the point, ties broken by earliest creation time.
	// It returns (nil, nil) when no open ticket is in range.
	FindOpenNear(ctx context.Context, point domain.Point, radiusMeters float64) (*domain.Ticket, error)

	// AddVote atomically increments the ticket's vote count by one and
	// recomputes its priority score as of now.
	AddVote(ctx context.Context, id string, now time.Time) (*domain.Ticket, error)

	// UpdateStatus atomically applies the status and returns the updated
	// ticket along with the status it replaced. Unrecognized status values
	// fail with INVALID_TRANSITION and leave the ticket unchanged.
	UpdateStatus(ctx context.Context, id string, status domain.Status, now time.Time) (*domain.Ticket, domain.Status, error)

	// ListByPriority returns a full snapshot ordered by descending priority
	// score, ties broken by ascending creation time.
	ListByPriority(ctx context.Context) ([]domain.Ticket, error)

	// InsertMany bulk-inserts pre-built tickets (seed/demo data).
	InsertMany(ctx context.Context, tickets []domain.Ticket) error

	// Name identifies the backend for logs and health output.
	Name() string
}
