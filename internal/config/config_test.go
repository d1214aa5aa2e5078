package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FORGE_DATABASE_URL", "postgres://localhost/forge")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", c.HTTPAddr)
	}
	if c.AnthropicModel != "claude-sonnet-4-5" {
		t.Errorf("AnthropicModel = %q", c.AnthropicModel)
	}
	if c.GenerateTimeout != 60*time.Second || c.GenerateRetries != 3 {
		t.Errorf("generator settings = %v / %d", c.GenerateTimeout, c.GenerateRetries)
	}
	if c.CompleteThreshold != 0.9 || c.HoursPerWeek != 40 {
		t.Errorf("planning knobs = %g / %g", c.CompleteThreshold, c.HoursPerWeek)
	}
	if c.ExportInterval != 0 || c.ExportS3Region != "us-east-1" {
		t.Errorf("export settings = %v / %q", c.ExportInterval, c.ExportS3Region)
	}
	if c.ConfidenceDefault != 0.5 || c.ConfidenceBase != 0.5 ||
		c.ConfidenceIncrement != 0.45 || c.ConfidenceMax != 0.95 {
		t.Errorf("confidence constants = %g / %g / %g / %g",
			c.ConfidenceDefault, c.ConfidenceBase, c.ConfidenceIncrement, c.ConfidenceMax)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FORGE_DATABASE_URL", "postgres://localhost/forge")
	t.Setenv("FORGE_HTTP_ADDR", ":9999")
	t.Setenv("FORGE_COMPLETE_THRESHOLD", "0.75")
	t.Setenv("FORGE_HOURS_PER_WEEK", "32")
	t.Setenv("FORGE_EXPORT_INTERVAL", "15m")
	t.Setenv("FORGE_EXPORT_S3_BUCKET", "plans")
	t.Setenv("FORGE_CONFIDENCE_BASE", "0.4")
	t.Setenv("FORGE_CONFIDENCE_MAX", "0.99")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.HTTPAddr != ":9999" || c.CompleteThreshold != 0.75 || c.HoursPerWeek != 32 {
		t.Errorf("overrides not applied: %+v", c)
	}
	if c.ExportInterval != 15*time.Minute || c.ExportS3Bucket != "plans" {
		t.Errorf("export overrides not applied: %+v", c)
	}
	if c.ConfidenceBase != 0.4 || c.ConfidenceMax != 0.99 {
		t.Errorf("confidence overrides not applied: %+v", c)
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("FORGE_DATABASE_URL", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "FORGE_DATABASE_URL") {
		t.Errorf("expected missing database error, got %v", err)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"FORGE_COMPLETE_THRESHOLD", "1.5"},
		{"FORGE_COMPLETE_THRESHOLD", "nope"},
		{"FORGE_HOURS_PER_WEEK", "-8"},
		{"FORGE_GENERATE_TIMEOUT", "soon"},
		{"FORGE_GENERATE_RETRIES", "many"},
		{"FORGE_CONFIDENCE_BASE", "1.5"},
		{"FORGE_CONFIDENCE_MAX", "-0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv("FORGE_DATABASE_URL", "postgres://localhost/forge")
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
