package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/filingsight/internal/pageref"
)

type Config struct {
	Port string

	// Auth. Empty disables bearer checks on /api routes.
	APIKey string

	// CORS allow-list for the browser front end.
	CORSOrigins []string

	// Gemini generation
	GeminiAPIKey string
	GeminiModel  string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Prompt budget; pages past it are dropped. 0 disables truncation.
	MaxPromptTokens int

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
	InlinePDF            bool

	// Rendering
	NavigateFunc string

	// LLM latency window for /api/stats/llm
	LLMStatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "3001"),

		APIKey: os.Getenv("API_KEY"),

		CORSOrigins: envList("CORS_ORIGINS", []string{"http://localhost:5173"}),

		GeminiAPIKey: envOr("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.5-flash"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		MaxPromptTokens: envInt("MAX_PROMPT_TOKENS", 800000),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
		InlinePDF:            envBool("INLINE_PDF", false),

		NavigateFunc: envOr("NAVIGATE_FUNC", "goToPage"),

		LLMStatsWindow: envDuration("LLM_STATS_WINDOW", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxPromptTokens < 0 {
		cfg.MaxPromptTokens = 0
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.LLMStatsWindow <= 0 {
		cfg.LLMStatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY (or GOOGLE_API_KEY) is required")
	}
	if !pageref.ValidNavigateFunc(c.NavigateFunc) {
		return fmt.Errorf("NAVIGATE_FUNC %q is not a valid JavaScript function name", c.NavigateFunc)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated value, dropping empty entries.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
