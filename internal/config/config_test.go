package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Port != "4000" {
		t.Errorf("default port = %q, want 4000", cfg.App.Port)
	}
	if cfg.Ingest.DedupRadiusMeters != 10 {
		t.Errorf("default dedup radius = %v, want 10", cfg.Ingest.DedupRadiusMeters)
	}
	if cfg.Workflow.FixedRewardPoints != 50 {
		t.Errorf("default reward points = %d, want 50", cfg.Workflow.FixedRewardPoints)
	}
	if cfg.Classifier.Timeout() != 3*time.Second {
		t.Errorf("default classifier timeout = %v, want 3s", cfg.Classifier.Timeout())
	}
	if cfg.Classifier.FallbackCategory != "pothole" {
		t.Errorf("default fallback category = %q, want pothole", cfg.Classifier.FallbackCategory)
	}
	if cfg.Postgres.ConnectTimeout() != 5*time.Second {
		t.Errorf("default connect timeout = %v, want 5s", cfg.Postgres.ConnectTimeout())
	}
	if cfg.Uploads.Dir != "uploads" {
		t.Errorf("default upload dir = %q, want uploads", cfg.Uploads.Dir)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DEDUP_RADIUS_METERS", "25.5")
	t.Setenv("WORKFLOW_FIXED_REWARD_POINTS", "100")
	t.Setenv("CLASSIFIER_TIMEOUT_MS", "750")
	t.Setenv("CLASSIFIER_FALLBACK_CATEGORY", "uncategorized_issue")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ingest.DedupRadiusMeters != 25.5 {
		t.Errorf("dedup radius = %v, want 25.5", cfg.Ingest.DedupRadiusMeters)
	}
	if cfg.Workflow.FixedRewardPoints != 100 {
		t.Errorf("reward points = %d, want 100", cfg.Workflow.FixedRewardPoints)
	}
	if cfg.Classifier.Timeout() != 750*time.Millisecond {
		t.Errorf("classifier timeout = %v, want 750ms", cfg.Classifier.Timeout())
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logger.Level)
	}
}

func TestLoadRejectsBadRadius(t *testing.T) {
	for _, bad := range []string{"abc", "0", "-3"} {
		t.Setenv("DEDUP_RADIUS_METERS", bad)
		if _, err := Load(); err == nil {
			t.Errorf("Load with DEDUP_RADIUS_METERS=%q succeeded, want error", bad)
		}
	}
}

func TestInvalidIntsFallBack(t *testing.T) {
	t.Setenv("WORKFLOW_FIXED_REWARD_POINTS", "lots")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workflow.FixedRewardPoints != 50 {
		t.Errorf("unparseable int should fall back to default, got %d", cfg.Workflow.FixedRewardPoints)
	}
}
