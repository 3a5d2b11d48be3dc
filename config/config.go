package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Fetcher     FetcherConfig
	Locator     LocatorConfig
	Credibility CredibilityConfig
	Batch       BatchConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	Webhook     WebhookConfig
	Log         LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// FetcherConfig controls HTTP fetching behavior.
type FetcherConfig struct {
	// DefaultTimeout is the per-attempt deadline.
	DefaultTimeout time.Duration // default: 20s

	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration // default: 120s

	// MaxBytes caps the response body size. Larger bodies are truncated.
	MaxBytes int64 // default: 2 MiB

	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int // default: 2

	// RetryBaseDelay is the unit of the linear backoff between attempts.
	// Attempt n waits n * RetryBaseDelay.
	RetryBaseDelay time.Duration // default: 1s

	// MaxRedirects bounds redirect following per attempt.
	MaxRedirects int // default: 10

	// AllowPrivateHosts disables the localhost/private-IP guard.
	// Intended for development against local fixtures only.
	AllowPrivateHosts bool // default: false
}

// LocatorConfig controls content location and output shaping.
type LocatorConfig struct {
	// MaxBodyChars caps the extracted body text length.
	MaxBodyChars int // default: 12000

	// MaxLinks caps how many deduplicated links are collected.
	MaxLinks int // default: 30

	// MaxMarkdownLinks caps how many links the markdown assembly renders.
	MaxMarkdownLinks int // default: 15

	// MaxImages caps the image list.
	MaxImages int // default: 20

	// MinCandidateChars is the minimum text length for a scoring
	// candidate element.
	MinCandidateChars int // default: 200

	// MinCandidateParagraphs is the minimum number of descendant <p>
	// elements for a scoring candidate.
	MinCandidateParagraphs int // default: 2
}

// CredibilityConfig controls source assessment thresholds.
type CredibilityConfig struct {
	// MinValidScore is the score at or above which a source is usable.
	MinValidScore float64 // default: 0.3

	// GenericnessThreshold is the boilerplate fraction at or above which
	// extracted content attaches a warning to the verdict.
	GenericnessThreshold float64 // default: 0.5
}

// BatchConfig controls batch scrape jobs.
type BatchConfig struct {
	// MaxConcurrency bounds in-flight scrapes per batch.
	MaxConcurrency int64 // default: 5

	// JobTTL is how long a finished job stays queryable.
	JobTTL time.Duration // default: 5m
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys (for MVP; replace with DB later).
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// WebhookConfig controls batch completion notifications.
type WebhookConfig struct {
	// Secret signs webhook payloads with HMAC-SHA256. Empty disables
	// signing.
	Secret string

	// Timeout is the per-delivery HTTP deadline.
	Timeout time.Duration // default: 10s
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SIFT_HOST", "0.0.0.0"),
			Port: envIntOr("SIFT_PORT", 8080),
			Mode: envOr("SIFT_MODE", "release"),
		},
		Fetcher: FetcherConfig{
			DefaultTimeout:    envDurationOr("SIFT_DEFAULT_TIMEOUT", 20*time.Second),
			MaxTimeout:        envDurationOr("SIFT_MAX_TIMEOUT", 120*time.Second),
			MaxBytes:          envInt64Or("SIFT_MAX_BYTES", 2*1024*1024),
			MaxRetries:        envIntOr("SIFT_MAX_RETRIES", 2),
			RetryBaseDelay:    envDurationOr("SIFT_RETRY_BASE_DELAY", time.Second),
			MaxRedirects:      envIntOr("SIFT_MAX_REDIRECTS", 10),
			AllowPrivateHosts: envBoolOr("SIFT_ALLOW_PRIVATE_HOSTS", false),
		},
		Locator: LocatorConfig{
			MaxBodyChars:           envIntOr("SIFT_MAX_BODY_CHARS", 12000),
			MaxLinks:               envIntOr("SIFT_MAX_LINKS", 30),
			MaxMarkdownLinks:       envIntOr("SIFT_MAX_MARKDOWN_LINKS", 15),
			MaxImages:              envIntOr("SIFT_MAX_IMAGES", 20),
			MinCandidateChars:      envIntOr("SIFT_MIN_CANDIDATE_CHARS", 200),
			MinCandidateParagraphs: envIntOr("SIFT_MIN_CANDIDATE_PARAGRAPHS", 2),
		},
		Credibility: CredibilityConfig{
			MinValidScore:        envFloatOr("SIFT_MIN_VALID_SCORE", 0.3),
			GenericnessThreshold: envFloatOr("SIFT_GENERICNESS_THRESHOLD", 0.5),
		},
		Batch: BatchConfig{
			MaxConcurrency: int64(envIntOr("SIFT_BATCH_CONCURRENCY", 5)),
			JobTTL:         envDurationOr("SIFT_BATCH_JOB_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SIFT_AUTH_ENABLED", true),
			APIKeys: envSliceOr("SIFT_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SIFT_RATE_RPS", 5.0),
			Burst:             envIntOr("SIFT_RATE_BURST", 10),
		},
		Webhook: WebhookConfig{
			Secret:  os.Getenv("SIFT_WEBHOOK_SECRET"),
			Timeout: envDurationOr("SIFT_WEBHOOK_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  envOr("SIFT_LOG_LEVEL", "info"),
			Format: envOr("SIFT_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
