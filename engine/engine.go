// Package engine composes the fetcher, locator and credibility
// classifier into the scrape operation, and runs batches of it under a
// bounded-concurrency scheduler.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/usesift/sift/credibility"
	"github.com/usesift/sift/fetcher"
	"github.com/usesift/sift/locator"
	"github.com/usesift/sift/models"
	"github.com/usesift/sift/simhash"
)

// Engine runs the scrape flow: fetch the page, locate its content,
// assess the source. It is safe for concurrent use.
type Engine struct {
	fetcher    *fetcher.Fetcher
	locator    *locator.Locator
	classifier *credibility.Classifier
}

// New wires an Engine from its three components.
func New(f *fetcher.Fetcher, l *locator.Locator, c *credibility.Classifier) *Engine {
	return &Engine{
		fetcher:    f,
		locator:    l,
		classifier: c,
	}
}

// Process scrapes one URL. It never returns an error: fetch-layer
// failures come back as a response with Success=false and a populated
// Error, since extraction and credibility cannot fail. The request is
// normalized in place via Defaults.
func (e *Engine) Process(ctx context.Context, req *models.ScrapeRequest) *models.ScrapeResponse {
	start := time.Now()
	req.Defaults()

	// The source assessment depends only on the URL, so it runs while
	// the fetch is in flight.
	var (
		verdict *models.CredibilityInfo
		wg      sync.WaitGroup
	)
	if !req.SkipCredibility {
		wg.Add(1)
		go func() {
			defer wg.Done()
			verdict = e.classifier.ValidateURL(req.URL)
		}()
	}

	res, err := e.fetcher.Fetch(ctx, req.URL, fetcher.Options{
		Timeout:    time.Duration(req.Timeout) * time.Second,
		MaxBytes:   req.MaxBytes,
		MaxRetries: req.MaxRetries,
	})
	fetchMs := time.Since(start).Milliseconds()
	wg.Wait()

	if err != nil {
		// Pre-flight rejection: the URL never went out on the wire.
		var engineErr *models.EngineError
		if !errors.As(err, &engineErr) {
			engineErr = models.NewEngineError(models.ErrCodeInternal, err.Error(), err)
		}
		return &models.ScrapeResponse{
			Credibility: verdict,
			Error:       engineErr.ToDetail(),
			Timing: models.TimingInfo{
				TotalMs: time.Since(start).Milliseconds(),
				FetchMs: fetchMs,
			},
		}
	}

	resp := &models.ScrapeResponse{
		StatusCode:  res.StatusCode,
		FinalURL:    res.FinalURL,
		Credibility: verdict,
		Fetch: models.FetchInfo{
			Attempts:    res.Attempts,
			Truncated:   res.Truncated,
			ContentType: res.ContentType,
			ElapsedMs:   res.ElapsedMs,
		},
	}

	if !res.Succeeded {
		resp.Error = &models.ErrorDetail{
			Code:    models.CodeForKind(res.ErrorKind),
			Message: res.ErrorMessage,
			Kind:    res.ErrorKind,
		}
		resp.Timing = models.TimingInfo{
			TotalMs: time.Since(start).Milliseconds(),
			FetchMs: fetchMs,
		}
		slog.Warn("scrape failed",
			"url", req.URL,
			"kind", res.ErrorKind,
			"status", res.StatusCode,
			"attempts", res.Attempts,
		)
		return resp
	}

	extractStart := time.Now()
	doc := e.locator.Extract(string(res.Body), res.FinalURL, locator.Options{
		OnlyMainContent: req.OnlyMainContent == nil || *req.OnlyMainContent,
		ExtractMode:     req.ExtractMode,
		OutputFormat:    req.OutputFormat,
	})
	extractMs := time.Since(extractStart).Milliseconds()

	if verdict != nil {
		e.classifier.Refine(verdict, doc.MainText)
	}

	resp.Success = true
	resp.Content = doc.Content
	resp.Metadata = doc.Metadata
	resp.Headings = doc.Headings
	resp.Links = doc.Links
	resp.Images = doc.Images
	resp.OGMetadata = doc.OG
	resp.RequiresRendering = doc.RequiresRendering
	resp.Tokens = doc.Tokens
	resp.Fingerprint = simhash.Hex(simhash.Fingerprint(doc.MainText))
	resp.Timing = models.TimingInfo{
		TotalMs:   time.Since(start).Milliseconds(),
		FetchMs:   fetchMs,
		ExtractMs: extractMs,
	}

	slog.Info("scrape complete",
		"url", req.URL,
		"status", res.StatusCode,
		"words", doc.WordCount,
		"attempts", res.Attempts,
		"total_ms", resp.Timing.TotalMs,
	)
	return resp
}
