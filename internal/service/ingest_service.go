package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicflo/report-service/internal/classifier"
	"github.com/civicflo/report-service/internal/domain"
	"github.com/civicflo/report-service/internal/events"
	"github.com/civicflo/report-service/internal/observability"
	"github.com/civicflo/report-service/internal/repository"
	"github.com/civicflo/report-service/pkg/util"
)

// IngestService orchestrates a report submission: classify, deduplicate,
// then either fold the report into a nearby open ticket or create a new one.
// Exactly one classifier call and exactly one store write per submission.
type IngestService struct {
	store      repository.TicketStore
	classifier classifier.Classifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	radius     float64
	now        func() time.Time
}

// IngestDependencies bundles collaborators for the ingest service.
type IngestDependencies struct {
	Store      repository.TicketStore
	Classifier classifier.Classifier
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// SubmitInput describes one citizen report.
type SubmitInput struct {
	ImageURL      string
	ImageData     []byte
	ImageFilename string
	Latitude      float64
	Longitude     float64
	Description   string

	// Classification, when set, skips the classifier call. The JSON-only
	// submission path uses it to carry the fallback classification.
	Classification *domain.Classification
}

// SubmitResult is the outcome of a submission.
type SubmitResult struct {
	Ticket      *domain.Ticket
	IsDuplicate bool
}

// NewIngestService constructs the ingestion pipeline.
func NewIngestService(deps IngestDependencies, radiusMeters float64) *IngestService {
	return &IngestService{
		store:      deps.Store,
		classifier: deps.Classifier,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		radius:     radiusMeters,
		now:        time.Now,
	}
}

// Submit runs the ingestion pipeline for one report.
func (s *IngestService) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	point := domain.Point{Longitude: input.Longitude, Latitude: input.Latitude}
	if err := point.Validate(); err != nil {
		return nil, util.NewValidationError(err.Error(), nil)
	}
	if len(input.ImageData) == 0 && input.Classification == nil {
		return nil, util.NewValidationError("image or prior classification required", nil)
	}

	result := s.classify(ctx, input)
	severity := domain.SeverityFor(result.Category)

	existing, err := s.store.FindOpenNear(ctx, point, s.radius)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		merged, err := s.store.AddVote(ctx, existing.TicketID, s.now())
		if err != nil {
			return nil, err
		}
		s.metrics.RecordIngest(true)
		s.publish(ctx, events.Event{
			Type:     events.EventTicketMerged,
			TicketID: merged.TicketID,
			Payload: events.TicketMergedPayload{
				Votes:         merged.Votes,
				PriorityScore: merged.PriorityScore,
			},
		})
		s.logger.Info("duplicate report merged",
			zap.String("ticket_id", merged.TicketID),
			zap.Int("votes", merged.Votes))
		return &SubmitResult{Ticket: merged, IsDuplicate: true}, nil
	}

	now := s.now()
	ticket := &domain.Ticket{
		TicketID:     uuid.NewString(),
		ImageURL:     input.ImageURL,
		Type:         result.Category,
		Description:  input.Description,
		Location:     point,
		Severity:     severity,
		Votes:        1,
		AIConfidence: result.Confidence,
		Status:       domain.StatusReceived,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	ticket.Rescore(now)

	if err := s.store.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.metrics.RecordIngest(false)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.TicketID,
		Payload: events.TicketCreatedPayload{
			Type:          ticket.Type,
			Severity:      ticket.Severity,
			PriorityScore: ticket.PriorityScore,
			AIConfidence:  ticket.AIConfidence,
		},
	})
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.TicketID),
		zap.String("type", string(ticket.Type)),
		zap.Float64("priority", ticket.PriorityScore))
	return &SubmitResult{Ticket: ticket, IsDuplicate: false}, nil
}

func (s *IngestService) classify(ctx context.Context, input SubmitInput) domain.Classification {
	if input.Classification != nil {
		return *input.Classification
	}
	return s.classifier.Classify(ctx, input.ImageData, input.ImageFilename)
}

func (s *IngestService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	_ = s.dispatcher.Publish(ctx, event)
}
