package models

// BatchRequest is the payload for POST /api/v1/batch/scrape.
type BatchRequest struct {
	// URLs is the list of target pages to scrape. Required.
	URLs []string `json:"urls" binding:"required,min=1,max=100"`

	// Options contains shared scrape options applied to all URLs.
	Options BatchOptions `json:"options"`

	// WebhookURL, when set, receives a signed POST once the batch
	// finishes.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`
}

// BatchOptions are the shared scrape settings applied to every URL in a batch.
type BatchOptions struct {
	OutputFormat    string `json:"output_format,omitempty" binding:"omitempty,oneof=markdown html text markdown_citations"`
	ExtractMode     string `json:"extract_mode,omitempty" binding:"omitempty,oneof=heuristic readability auto raw"`
	OnlyMainContent *bool  `json:"only_main_content,omitempty"`
	Timeout         int    `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`
	MaxRetries      *int   `json:"max_retries,omitempty" binding:"omitempty,min=0,max=5"`
	SkipCredibility bool   `json:"skip_credibility,omitempty"`
}

// Request builds the per-URL scrape request for a batch entry.
func (o BatchOptions) Request(url string) *ScrapeRequest {
	req := &ScrapeRequest{
		URL:             url,
		OnlyMainContent: o.OnlyMainContent,
		Timeout:         o.Timeout,
		MaxRetries:      o.MaxRetries,
		OutputFormat:    o.OutputFormat,
		ExtractMode:     o.ExtractMode,
		SkipCredibility: o.SkipCredibility,
	}
	req.Defaults()
	return req
}

// BatchResponse is the immediate response for POST /api/v1/batch/scrape.
type BatchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// BatchStatusResponse is the response for GET /api/v1/batch/:id.
type BatchStatusResponse struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Completed int               `json:"completed"`
	Total     int               `json:"total"`
	Results   []*ScrapeResponse `json:"results,omitempty"`

	// Duplicates maps a result index to the index of an earlier result
	// whose content fingerprint is within the near-duplicate distance.
	Duplicates map[int]int `json:"duplicates,omitempty"`
}

// BatchJob tracks an in-progress batch scrape operation.
type BatchJob struct {
	ID         string
	Status     string // "processing", "completed", "failed", "partial"
	Total      int
	Completed  int
	Results    []*ScrapeResponse
	Duplicates map[int]int
	WebhookURL string
	CreatedAt  int64 // unix timestamp
}
