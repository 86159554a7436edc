// Package classifier wraps the external vision service that labels report
// images. Ingestion must never block or fail because classification failed,
// so every failure mode collapses into a deterministic fallback result.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicflo/report-service/internal/config"
	"github.com/civicflo/report-service/internal/domain"
	"github.com/civicflo/report-service/internal/observability"
)

// FallbackConfidence is attached to every substituted classification.
const FallbackConfidence = 0.75

// Classifier labels a report image. Implementations absorb their own
// failures; the returned classification is always usable.
type Classifier interface {
	Classify(ctx context.Context, image []byte, filename string) domain.Classification
	Fallback() domain.Classification
}

// predictResponse is the wire contract of the external service.
type predictResponse struct {
	Valid      bool    `json:"valid"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	CivicIssue string  `json:"civic_issue"`
}

// Client calls the vision service over HTTP with a bounded timeout and a
// single attempt.
type Client struct {
	cfg     config.ClassifierConfig
	http    *http.Client
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewClient constructs the HTTP classifier adapter.
func NewClient(cfg config.ClassifierConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
		metrics: metrics,
	}
}

// Classify labels the image. Network failures, timeouts, malformed replies
// and explicit valid=false responses all produce the fallback; no retries,
// so a slow classifier cannot stall interactive submission.
func (c *Client) Classify(ctx context.Context, image []byte, filename string) domain.Classification {
	resp, err := c.predict(ctx, image, filename)
	if err != nil {
		c.logger.Warn("classifier unavailable, using fallback", zap.Error(err))
		c.metrics.RecordClassifierFallback()
		return c.Fallback()
	}
	if !resp.Valid {
		c.logger.Info("classifier rejected image, using lenient fallback",
			zap.String("class", resp.Class))
		c.metrics.RecordClassifierFallback()
		return c.Fallback()
	}

	category := domain.IssueType(resp.CivicIssue)
	if category == "" {
		category = domain.IssueUncategorized
	}
	return domain.Classification{
		Category:   category,
		Confidence: resp.Confidence,
		Valid:      true,
	}
}

// Fallback is the deterministic classification substituted when the service
// is unreachable or rejects the image.
func (c *Client) Fallback() domain.Classification {
	category := domain.IssueType(c.cfg.FallbackCategory)
	if category == "" {
		category = domain.IssueUncategorized
	}
	return domain.Classification{
		Category:   category,
		Confidence: FallbackConfidence,
		Valid:      true,
	}
}

func (c *Client) predict(ctx context.Context, image []byte, filename string) (*predictResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+"/predict", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	var result predictResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}
	return &result, nil
}
