// Command sift-mcp exposes the sift API as MCP tools over stdio, so
// agent runtimes can extract content and assess sources without
// speaking HTTP themselves.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// scrapeRequest mirrors the sift API request model.
type scrapeRequest struct {
	URL          string `json:"url"`
	OutputFormat string `json:"output_format,omitempty"`
	ExtractMode  string `json:"extract_mode,omitempty"`
}

// credibilityInfo mirrors the credibility block of API responses.
type credibilityInfo struct {
	Score       float64  `json:"score"`
	Tier        string   `json:"tier"`
	IsValid     bool     `json:"is_valid"`
	Domain      string   `json:"domain"`
	HasSSL      bool     `json:"has_ssl"`
	Warnings    []string `json:"warnings"`
	Genericness float64  `json:"genericness"`
}

// scrapeResponse mirrors the sift API response model.
type scrapeResponse struct {
	Success  bool   `json:"success"`
	Content  string `json:"content"`
	Metadata *struct {
		Title     string `json:"title"`
		SourceURL string `json:"source_url"`
	} `json:"metadata"`
	Credibility       *credibilityInfo `json:"credibility"`
	RequiresRendering bool             `json:"requires_rendering"`
	Tokens            *struct {
		OriginalEstimate  int     `json:"original_estimate"`
		ExtractedEstimate int     `json:"extracted_estimate"`
		SavingsPercent    float64 `json:"savings_percent"`
	} `json:"tokens"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// validateResponse mirrors the sift validate API response.
type validateResponse struct {
	Success     bool             `json:"success"`
	Credibility *credibilityInfo `json:"credibility"`
	Error       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// batchResponse mirrors the sift batch creation response.
type batchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// batchStatusResponse mirrors the sift batch status response.
type batchStatusResponse struct {
	ID         string            `json:"id"`
	Status     string            `json:"status"`
	Completed  int               `json:"completed"`
	Total      int               `json:"total"`
	Results    []json.RawMessage `json:"results"`
	Duplicates map[int]int       `json:"duplicates"`
}

func main() {
	apiURL := os.Getenv("SIFT_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	// Optional: the server runs open when no keys are configured.
	apiKey := os.Getenv("SIFT_API_KEY")

	s := server.NewMCPServer(
		"sift",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	extractContentTool := mcp.NewTool("extract_content",
		mcp.WithDescription("Fetch a web page and return its main content with source credibility. Strips navigation, ads and boilerplate; reports a trust tier for the domain."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to extract"),
		),
		mcp.WithString("extract_mode",
			mcp.Description("Content location strategy: 'heuristic' (default, scored DOM candidates), 'readability' (arc90-style), 'auto' (both, longer text wins), or 'raw' (whole page)"),
			mcp.Enum("heuristic", "readability", "auto", "raw"),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format: 'markdown' (default), 'text' (plain text), 'html', or 'markdown_citations' (markdown with numbered reference citations)"),
			mcp.Enum("markdown", "text", "html", "markdown_citations"),
		),
	)
	s.AddTool(extractContentTool, handleExtractContent(apiURL, apiKey))

	validateSourceTool := mcp.NewTool("validate_source",
		mcp.WithDescription("Assess the credibility of a source URL without fetching it: trust tier, score, SSL and whitelist checks. Optionally scores provided text for generic filler phrasing."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the source to assess"),
		),
		mcp.WithString("text",
			mcp.Description("Previously extracted text to score for boilerplate phrasing"),
		),
	)
	s.AddTool(validateSourceTool, handleValidateSource(apiURL, apiKey))

	batchExtractTool := mcp.NewTool("batch_extract",
		mcp.WithDescription("Extract content from multiple URLs in parallel. Returns the content of each page and flags near-duplicate results."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("List of URLs to extract"),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format: 'markdown' (default), 'text', 'html', or 'markdown_citations'"),
			mcp.Enum("markdown", "text", "html", "markdown_citations"),
		),
		mcp.WithString("extract_mode",
			mcp.Description("Content location strategy: 'heuristic' (default), 'readability', 'auto', or 'raw'"),
			mcp.Enum("heuristic", "readability", "auto", "raw"),
		),
	)
	s.AddTool(batchExtractTool, handleBatchExtract(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the sift API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// pollBatch polls the batch status endpoint until the job leaves
// "processing" or the context is cancelled.
func pollBatch(ctx context.Context, client *http.Client, apiURL, apiKey, id string) ([]byte, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/api/v1/batch/"+id, nil)
			if err != nil {
				return nil, fmt.Errorf("create poll request: %w", err)
			}
			if apiKey != "" {
				req.Header.Set("X-API-Key", apiKey)
			}

			resp, err := client.Do(req)
			if err != nil {
				return nil, fmt.Errorf("poll request failed: %w", err)
			}

			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read poll response: %w", err)
			}

			var status struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(body, &status); err != nil {
				return nil, fmt.Errorf("parse poll status: %w", err)
			}

			if status.Status != "processing" {
				return body, nil
			}
		}
	}
}

// credibilityLine renders a one-line trust summary for tool output.
func credibilityLine(c *credibilityInfo) string {
	if c == nil {
		return ""
	}
	line := fmt.Sprintf("Credibility: %s (score %.2f)", c.Tier, c.Score)
	if len(c.Warnings) > 0 {
		line += "\nWarnings: " + strings.Join(c.Warnings, "; ")
	}
	return line + "\n"
}

func handleExtractContent(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := scrapeRequest{
			URL:          url,
			ExtractMode:  request.GetString("extract_mode", ""),
			OutputFormat: request.GetString("output_format", ""),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/scrape", reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scrape request failed: %v", err)), nil
		}

		var scrapeResp scrapeResponse
		if err := json.Unmarshal(respBody, &scrapeResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !scrapeResp.Success {
			errMsg := "extraction failed"
			if scrapeResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", scrapeResp.Error.Code, scrapeResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		var sb strings.Builder
		if scrapeResp.Metadata != nil {
			sb.WriteString(fmt.Sprintf("Title: %s\nSource: %s\n", scrapeResp.Metadata.Title, scrapeResp.Metadata.SourceURL))
		}
		sb.WriteString(credibilityLine(scrapeResp.Credibility))
		if scrapeResp.RequiresRendering {
			sb.WriteString("Note: the page appears to build its content with JavaScript; extraction may be incomplete.\n")
		}
		sb.WriteString("\n")
		sb.WriteString(scrapeResp.Content)

		if scrapeResp.Tokens != nil {
			t := scrapeResp.Tokens
			sb.WriteString(fmt.Sprintf("\n\n---\nTokens: %d (saved %.0f%% from original %d)",
				t.ExtractedEstimate, t.SavingsPercent, t.OriginalEstimate))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleValidateSource(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := map[string]any{"url": url}
		if text := request.GetString("text", ""); text != "" {
			payload["text"] = text
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/validate", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("validate request failed: %v", err)), nil
		}

		var validateResp validateResponse
		if err := json.Unmarshal(respBody, &validateResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !validateResp.Success || validateResp.Credibility == nil {
			errMsg := "validation failed"
			if validateResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", validateResp.Error.Code, validateResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		c := validateResp.Credibility
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Domain: %s\n", c.Domain))
		sb.WriteString(fmt.Sprintf("Tier: %s\n", c.Tier))
		sb.WriteString(fmt.Sprintf("Score: %.2f\n", c.Score))
		sb.WriteString(fmt.Sprintf("Valid: %t\n", c.IsValid))
		sb.WriteString(fmt.Sprintf("SSL: %t\n", c.HasSSL))
		if len(c.Warnings) > 0 {
			sb.WriteString("Warnings: " + strings.Join(c.Warnings, "; ") + "\n")
		}
		if c.Genericness > 0 {
			sb.WriteString(fmt.Sprintf("Genericness: %.2f\n", c.Genericness))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleBatchExtract(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := request.RequireStringSlice("urls")
		if err != nil {
			return mcp.NewToolResultError("urls is required and must be an array of strings"), nil
		}

		payload := map[string]any{
			"urls": urls,
			"options": map[string]any{
				"output_format": request.GetString("output_format", ""),
				"extract_mode":  request.GetString("extract_mode", ""),
			},
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/batch/scrape", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("batch request failed: %v", err)), nil
		}

		var batchResp batchResponse
		if err := json.Unmarshal(respBody, &batchResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse batch response: %v", err)), nil
		}
		if batchResp.ID == "" {
			return mcp.NewToolResultError("batch job creation failed"), nil
		}

		resultBody, err := pollBatch(ctx, client, apiURL, apiKey, batchResp.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("polling batch job failed: %v", err)), nil
		}

		var statusResp batchStatusResponse
		if err := json.Unmarshal(resultBody, &statusResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse batch status: %v", err)), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Batch %s: %s (%d/%d completed)\n\n",
			statusResp.ID, statusResp.Status, statusResp.Completed, statusResp.Total))

		for i, raw := range statusResp.Results {
			var sr scrapeResponse
			if err := json.Unmarshal(raw, &sr); err != nil {
				sb.WriteString(fmt.Sprintf("--- Result %d: parse error ---\n\n", i+1))
				continue
			}
			if sr.Success {
				title := ""
				if sr.Metadata != nil {
					title = sr.Metadata.Title
				}
				sb.WriteString(fmt.Sprintf("--- [%d] %s ---\n", i+1, title))
				sb.WriteString(credibilityLine(sr.Credibility))
				sb.WriteString(sr.Content)
				sb.WriteString("\n\n")
			} else {
				errMsg := "unknown error"
				if sr.Error != nil {
					errMsg = sr.Error.Message
				}
				sb.WriteString(fmt.Sprintf("--- [%d] FAILED: %s ---\n\n", i+1, errMsg))
			}
		}

		if len(statusResp.Duplicates) > 0 {
			keys := make([]int, 0, len(statusResp.Duplicates))
			for i := range statusResp.Duplicates {
				keys = append(keys, i)
			}
			sort.Ints(keys)
			var notes []string
			for _, i := range keys {
				notes = append(notes, fmt.Sprintf("result %d duplicates result %d", i+1, statusResp.Duplicates[i]+1))
			}
			sb.WriteString("Near-duplicates: " + strings.Join(notes, ", ") + "\n")
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
