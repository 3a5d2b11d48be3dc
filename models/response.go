package models

// ScrapeResponse is the response for POST /api/v1/scrape.
type ScrapeResponse struct {
	// Success indicates whether the fetch and extraction completed.
	// A truncated body still counts as success.
	Success bool `json:"success"`

	// StatusCode is the HTTP status code from the fetched page.
	StatusCode int `json:"status_code"`

	// FinalURL is the URL after following all redirects.
	FinalURL string `json:"final_url"`

	// Content is the extracted body in the requested format.
	Content string `json:"content"`

	// Metadata contains extracted page metadata.
	Metadata Metadata `json:"metadata"`

	// Headings lists the heading texts of the located content in document
	// order.
	Headings []string `json:"headings,omitempty"`

	// Links contains internal and external links from the located content.
	Links LinksResult `json:"links"`

	// Images contains image src and alt text from the located content.
	Images []Image `json:"images"`

	// OGMetadata contains Open Graph meta tags from the page.
	OGMetadata OGMetadata `json:"og_metadata"`

	// Credibility is the source assessment for the requested URL,
	// refined with the extracted text when the fetch succeeds.
	// Omitted when the request set skip_credibility.
	Credibility *CredibilityInfo `json:"credibility,omitempty"`

	// RequiresRendering reports that the page appears to build its content
	// with JavaScript, so the extracted text may be incomplete.
	RequiresRendering bool `json:"requires_rendering,omitempty"`

	// Fingerprint is a 64-bit SimHash of the extracted text, hex encoded.
	// Near-identical pages produce fingerprints within a few bits.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Tokens provides token estimates before and after extraction.
	Tokens TokenInfo `json:"tokens"`

	// Fetch describes how the page was retrieved.
	Fetch FetchInfo `json:"fetch"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// FetchInfo describes the transport outcome of a scrape.
type FetchInfo struct {
	// Attempts is the total number of HTTP attempts, including retries.
	Attempts int `json:"attempts"`

	// Truncated reports that the body exceeded the byte cap and only the
	// prefix was kept.
	Truncated bool `json:"truncated,omitempty"`

	// ContentType is the upstream Content-Type header.
	ContentType string `json:"content_type,omitempty"`

	// ElapsedMs is the duration of the final attempt in milliseconds.
	ElapsedMs int64 `json:"elapsed_ms"`
}

// LinksResult separates extracted links into internal and external groups.
type LinksResult struct {
	Internal []Link `json:"internal"`
	External []Link `json:"external"`
}

// Link represents a hyperlink extracted from the page.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text,omitempty"`
}

// Image represents an image element extracted from the page.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// OGMetadata contains Open Graph protocol meta tags.
type OGMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Metadata holds page-level information extracted during scraping.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	Author      string `json:"author,omitempty"`
	Language    string `json:"language,omitempty"`
	SourceURL   string `json:"source_url"`

	// Published is the publish date as found in the page, unparsed.
	Published string `json:"published,omitempty"`

	// WordCount counts whitespace-separated words in the extracted text.
	WordCount int `json:"word_count"`
}

// TokenInfo provides before/after token estimates to show extraction efficacy.
type TokenInfo struct {
	// OriginalEstimate is the estimated token count of the raw HTML.
	OriginalEstimate int `json:"original_estimate"`

	// ExtractedEstimate is the estimated token count of the extracted output.
	ExtractedEstimate int `json:"extracted_estimate"`

	// SavingsPercent is the percentage of tokens removed (0-100).
	SavingsPercent float64 `json:"savings_percent"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// FetchMs is the time spent on HTTP attempts, including retry waits.
	FetchMs int64 `json:"fetch_ms"`

	// ExtractMs is the time spent locating content and converting it.
	ExtractMs int64 `json:"extract_ms"`
}

// ValidateResponse is the response for POST /api/v1/validate.
type ValidateResponse struct {
	Success     bool             `json:"success"`
	Credibility *CredibilityInfo `json:"credibility,omitempty"`
	Error       *ErrorDetail     `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string   `json:"status"` // "healthy" or "degraded"
	Uptime  string   `json:"uptime"`
	Jobs    JobStats `json:"jobs"`
	Version string   `json:"version"`
}

// JobStats reports the state of the batch job store.
type JobStats struct {
	ActiveBatches int `json:"active_batches"`
}
