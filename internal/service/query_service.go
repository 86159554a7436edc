package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/civicflo/report-service/internal/domain"
	"github.com/civicflo/report-service/internal/events"
	"github.com/civicflo/report-service/internal/persistence"
	"github.com/civicflo/report-service/internal/repository"
)

// listCacheKey holds the JSON snapshot of the priority-ordered listing.
const listCacheKey = "tickets:by_priority"

// QueryService serves ticket listings, optionally through a short-lived
// Redis snapshot cache invalidated on every ticket mutation.
type QueryService struct {
	store    repository.TicketStore
	cache    *persistence.Redis
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewQueryService constructs the listing service. The cache is disabled when
// Redis is not reachable at startup; listings then always hit the store.
func NewQueryService(store repository.TicketStore, cache *persistence.Redis, cacheTTL time.Duration, logger *zap.Logger) *QueryService {
	s := &QueryService{
		store:    store,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
	if cache != nil && cacheTTL > 0 {
		if err := cache.Ping(context.Background()); err == nil {
			s.cache = cache
		} else {
			logger.Warn("listing cache disabled", zap.Error(err))
		}
	}
	return s
}

// List returns all tickets ordered by descending priority score, ties broken
// by ascending creation time.
func (s *QueryService) List(ctx context.Context) ([]domain.Ticket, error) {
	if tickets, ok := s.fromCache(ctx); ok {
		return tickets, nil
	}

	tickets, err := s.store.ListByPriority(ctx)
	if err != nil {
		return nil, err
	}
	s.fillCache(ctx, tickets)
	return tickets, nil
}

// RegisterInvalidation drops the cached snapshot whenever a ticket is
// created, merged or moved through the workflow.
func (s *QueryService) RegisterInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil || s.cache == nil {
		return
	}
	invalidate := func(ctx context.Context, _ events.Event) error {
		if err := s.cache.Client.Del(ctx, listCacheKey).Err(); err != nil {
			s.logger.Debug("cache invalidation failed", zap.Error(err))
		}
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, invalidate)
	dispatcher.Subscribe(events.EventTicketMerged, invalidate)
	dispatcher.Subscribe(events.EventTicketStatusChanged, invalidate)
}

func (s *QueryService) fromCache(ctx context.Context) ([]domain.Ticket, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Client.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var tickets []domain.Ticket
	if err := json.Unmarshal(raw, &tickets); err != nil {
		s.logger.Debug("discarding malformed cache entry", zap.Error(err))
		return nil, false
	}
	return tickets, true
}

func (s *QueryService) fillCache(ctx context.Context, tickets []domain.Ticket) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(tickets)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, listCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("cache fill failed", zap.Error(err))
	}
}
