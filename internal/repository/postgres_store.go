package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicflo/report-service/internal/domain"
	"github.com/civicflo/report-service/pkg/util"
)

const ticketColumns = `ticket_id, image_url, type, description, longitude, latitude,
       severity, votes, priority_score, ai_confidence, status, created_at, updated_at`

// haversineExpr computes the geodesic distance in meters between a ticket's
// location and the ($1 latitude, $2 longitude) query point.
const haversineExpr = `2 * 6371000 * asin(sqrt(
        power(sin(radians(latitude - $1) / 2), 2) +
        cos(radians($1)) * cos(radians(latitude)) *
        power(sin(radians(longitude - $2) / 2), 2)))`

// postgresStore is the durable TicketStore backend.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore builds a TicketStore over a pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) TicketStore {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) Name() string {
	return "postgres"
}

func (s *postgresStore) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (` + ticketColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	_, err := s.pool.Exec(ctx, query,
		ticket.TicketID,
		ticket.ImageURL,
		ticket.Type,
		ticket.Description,
		ticket.Location.Longitude,
		ticket.Location.Latitude,
		ticket.Severity,
		ticket.Votes,
		ticket.PriorityScore,
		ticket.AIConfidence,
		ticket.Status,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return util.NewConflict("ticket id already exists", map[string]any{"ticket_id": ticket.TicketID})
		}
		return err
	}
	return nil
}

func (s *postgresStore) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_id=$1`
	ticket, err := scanTicket(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, err
	}
	return ticket, nil
}

func (s *postgresStore) FindOpenNear(ctx context.Context, point domain.Point, radiusMeters float64) (*domain.Ticket, error) {
	// Degree bounding box prefilter hits the partial index; the haversine
	// distance is the acceptance test.
	dLat, dLng := point.DegreeBox(radiusMeters)
	const query = `
        SELECT ` + ticketColumns + ` FROM (
            SELECT *, ` + haversineExpr + ` AS distance_m
            FROM tickets
            WHERE status IN ('Received', 'Verifying', 'In Progress')
              AND latitude BETWEEN $1 - $3 AND $1 + $3
              AND longitude BETWEEN $2 - $4 AND $2 + $4
        ) candidates
        WHERE distance_m <= $5
        ORDER BY distance_m ASC, created_at ASC
        LIMIT 1`
	ticket, err := scanTicket(s.pool.QueryRow(ctx, query,
		point.Latitude, point.Longitude, dLat, dLng, radiusMeters))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ticket, nil
}

func (s *postgresStore) AddVote(ctx context.Context, id string, now time.Time) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		locked, err := lockTicket(ctx, tx, id)
		if err != nil {
			return err
		}
		locked.Votes++
		locked.Rescore(now)
		locked.UpdatedAt = now

		const query = `
            UPDATE tickets SET votes=$2, priority_score=$3, updated_at=$4
            WHERE ticket_id=$1`
		if _, err := tx.Exec(ctx, query, id, locked.Votes, locked.PriorityScore, locked.UpdatedAt); err != nil {
			return err
		}
		ticket = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *postgresStore) UpdateStatus(ctx context.Context, id string, status domain.Status, now time.Time) (*domain.Ticket, domain.Status, error) {
	if !status.Valid() {
		return nil, "", util.NewInvalidTransition("unrecognized status", map[string]any{"status": string(status)})
	}
	var (
		ticket *domain.Ticket
		prev   domain.Status
	)
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		locked, err := lockTicket(ctx, tx, id)
		if err != nil {
			return err
		}
		prev = locked.Status
		locked.Status = status
		locked.UpdatedAt = now

		const query = `UPDATE tickets SET status=$2, updated_at=$3 WHERE ticket_id=$1`
		if _, err := tx.Exec(ctx, query, id, locked.Status, locked.UpdatedAt); err != nil {
			return err
		}
		ticket = locked
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return ticket, prev, nil
}

func (s *postgresStore) ListByPriority(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets
        ORDER BY priority_score DESC, created_at ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (s *postgresStore) InsertMany(ctx context.Context, tickets []domain.Ticket) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		const query = `
            INSERT INTO tickets (` + ticketColumns + `)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
		for i := range tickets {
			t := &tickets[i]
			if _, err := tx.Exec(ctx, query,
				t.TicketID, t.ImageURL, t.Type, t.Description,
				t.Location.Longitude, t.Location.Latitude,
				t.Severity, t.Votes, t.PriorityScore, t.AIConfidence,
				t.Status, t.CreatedAt, t.UpdatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func lockTicket(ctx context.Context, tx pgx.Tx, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_id=$1 FOR UPDATE`
	ticket, err := scanTicket(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, err
	}
	return ticket, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.TicketID,
		&ticket.ImageURL,
		&ticket.Type,
		&ticket.Description,
		&ticket.Location.Longitude,
		&ticket.Location.Latitude,
		&ticket.Severity,
		&ticket.Votes,
		&ticket.PriorityScore,
		&ticket.AIConfidence,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
