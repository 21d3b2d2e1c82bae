package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "GEMINI_API_KEY", "GOOGLE_API_KEY", "WORKER_COUNT", "CORS_ORIGINS", "JOB_TTL", "NAVIGATE_FUNC"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "3001" {
		t.Errorf("expected port 3001, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h ttl, got %s", cfg.JobTTL)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://localhost:5173"}) {
		t.Errorf("unexpected default origins %v", cfg.CORSOrigins)
	}
	if cfg.NavigateFunc != "goToPage" {
		t.Errorf("expected goToPage, got %q", cfg.NavigateFunc)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without an api key")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "legacy-key")
	t.Setenv("WORKER_COUNT", "-1")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("JOB_TTL", "90s")
	t.Setenv("INLINE_PDF", "true")
	t.Setenv("MAX_PROMPT_TOKENS", "nope")

	cfg := Load()
	if cfg.GeminiAPIKey != "legacy-key" {
		t.Errorf("expected GOOGLE_API_KEY fallback, got %q", cfg.GeminiAPIKey)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected invalid worker count to reset to 2, got %d", cfg.WorkerCount)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
	if cfg.JobTTL != 90*time.Second {
		t.Errorf("expected 90s, got %s", cfg.JobTTL)
	}
	if !cfg.InlinePDF {
		t.Error("expected inline pdf enabled")
	}
	if cfg.MaxPromptTokens != 800000 {
		t.Errorf("expected unparsable value to fall back, got %d", cfg.MaxPromptTokens)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestValidate_NavigateFunc(t *testing.T) {
	cfg := Config{GeminiAPIKey: "k", NavigateFunc: "alert(1)"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid navigate function")
	}
}
