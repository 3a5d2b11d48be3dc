package models

// ScrapeRequest is the payload for POST /api/v1/scrape.
type ScrapeRequest struct {
	// URL is the target page. Required. A missing scheme is treated as
	// https during validation, so "example.com/page" is accepted.
	URL string `json:"url" binding:"required"`

	// OnlyMainContent controls noise stripping. When false the whole
	// <body> is treated as content and only script/style are removed.
	// Default: true.
	OnlyMainContent *bool `json:"only_main_content,omitempty"`

	// Timeout is the per-attempt fetch deadline in seconds.
	// Default: 20. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`

	// MaxRetries is the number of retries after the initial attempt for
	// retryable failures (429, 5xx, network errors, timeouts).
	// Default: 2. Max: 5.
	MaxRetries *int `json:"max_retries,omitempty" binding:"omitempty,min=0,max=5"`

	// MaxBytes caps the response body size. Bodies beyond the cap are
	// truncated, not rejected. Default: 2 MiB.
	MaxBytes int64 `json:"max_bytes,omitempty" binding:"omitempty,min=1024"`

	// OutputFormat controls the document body format.
	// Allowed: "markdown" (default), "html", "text", and
	// "markdown_citations", which rewrites inline links as numbered
	// reference citations.
	OutputFormat string `json:"output_format,omitempty" binding:"omitempty,oneof=markdown html text markdown_citations"`

	// ExtractMode selects the content location strategy.
	// "heuristic" (default): fixed selectors, then a scored candidate pass.
	// "readability": arc90-style extraction.
	// "auto": run both, keep whichever found more text.
	// "raw": skip location, convert the whole page.
	ExtractMode string `json:"extract_mode,omitempty" binding:"omitempty,oneof=heuristic readability auto raw"`

	// SkipCredibility disables the source credibility assessment for this
	// request. The document is extracted regardless of the source score.
	SkipCredibility bool `json:"skip_credibility,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *ScrapeRequest) Defaults() {
	if r.OnlyMainContent == nil {
		t := true
		r.OnlyMainContent = &t
	}
	if r.Timeout == 0 {
		r.Timeout = 20
	}
	if r.MaxRetries == nil {
		n := 2
		r.MaxRetries = &n
	}
	if r.MaxBytes == 0 {
		r.MaxBytes = 2 * 1024 * 1024
	}
	if r.OutputFormat == "" {
		r.OutputFormat = "markdown"
	}
	if r.ExtractMode == "" {
		r.ExtractMode = "heuristic"
	}
}

// ValidateRequest is the payload for POST /api/v1/validate. It assesses a
// source without fetching it.
type ValidateRequest struct {
	// URL is the address to assess. Required.
	URL string `json:"url" binding:"required"`

	// Text, when present, is scored for generic filler phrasing and the
	// result attached to the verdict. Callers pass previously extracted
	// content here; the endpoint itself never fetches.
	Text string `json:"text,omitempty"`
}
