package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/usesift/sift/config"
	"github.com/usesift/sift/models"
	"github.com/usesift/sift/simhash"
	"github.com/usesift/sift/webhook"
)

// Batch job statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusPartial    = "partial"
	StatusFailed     = "failed"
)

// Batches runs batch scrape jobs and keeps finished ones queryable
// until their TTL expires. All methods are safe for concurrent use.
type Batches struct {
	engine   *Engine
	notifier *webhook.Notifier
	cfg      config.BatchConfig

	mu   sync.Mutex
	jobs map[string]*batchJob

	sweepEvery time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// batchJob guards one job's mutable state. Result slots and counters
// are written by scrape goroutines while status reads stream in.
type batchJob struct {
	mu  sync.Mutex
	job models.BatchJob
}

// NewBatches creates a batch runner around eng and starts its expiry
// sweeper. A nil notifier disables completion webhooks.
func NewBatches(eng *Engine, cfg config.BatchConfig, notifier *webhook.Notifier) *Batches {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 5
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 5 * time.Minute
	}
	b := &Batches{
		engine:     eng,
		notifier:   notifier,
		cfg:        cfg,
		jobs:       make(map[string]*batchJob),
		sweepEvery: time.Minute,
		stop:       make(chan struct{}),
	}
	go b.sweep()
	return b
}

// Close stops the expiry sweeper. Jobs already running keep running.
func (b *Batches) Close() {
	b.stopOnce.Do(func() { close(b.stop) })
}

// Start registers a batch job and launches it in the background. The
// returned response carries the job ID for status polling.
func (b *Batches) Start(req *models.BatchRequest) models.BatchResponse {
	id := "batch-" + uuid.NewString()
	state := &batchJob{job: models.BatchJob{
		ID:         id,
		Status:     StatusProcessing,
		Total:      len(req.URLs),
		Results:    make([]*models.ScrapeResponse, len(req.URLs)),
		WebhookURL: req.WebhookURL,
		CreatedAt:  time.Now().Unix(),
	}}

	b.mu.Lock()
	b.jobs[id] = state
	b.mu.Unlock()

	go b.run(state, req)

	return models.BatchResponse{
		ID:     id,
		Status: StatusProcessing,
		Total:  len(req.URLs),
	}
}

// Status returns a point-in-time snapshot of a job, or false if the
// job does not exist or has expired.
func (b *Batches) Status(id string) (*models.BatchStatusResponse, bool) {
	b.mu.Lock()
	state, ok := b.jobs[id]
	b.mu.Unlock()
	if !ok {
		return nil, false
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return snapshotLocked(&state.job), true
}

// Active counts jobs still processing, for health reporting.
func (b *Batches) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	active := 0
	for _, state := range b.jobs {
		state.mu.Lock()
		if state.job.Status == StatusProcessing {
			active++
		}
		state.mu.Unlock()
	}
	return active
}

// run scrapes every URL in the job with concurrency bounded by a
// weighted semaphore, then settles the final status, flags
// near-duplicate results and fires the completion webhook.
func (b *Batches) run(state *batchJob, req *models.BatchRequest) {
	ctx := context.Background()
	sem := semaphore.NewWeighted(b.cfg.MaxConcurrency)

	var wg sync.WaitGroup
	for i, rawURL := range req.URLs {
		wg.Add(1)
		go func(idx int, target string) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)

			resp := b.engine.Process(ctx, req.Options.Request(target))

			state.mu.Lock()
			state.job.Results[idx] = resp
			state.job.Completed++
			state.mu.Unlock()
		}(i, rawURL)
	}
	wg.Wait()

	state.mu.Lock()
	failed := 0
	fps := make([]uint64, len(state.job.Results))
	for i, res := range state.job.Results {
		if res == nil || !res.Success {
			failed++
			continue
		}
		fps[i] = simhash.ParseHex(res.Fingerprint)
	}
	switch {
	case failed == state.job.Total:
		state.job.Status = StatusFailed
	case failed > 0:
		state.job.Status = StatusPartial
	default:
		state.job.Status = StatusCompleted
	}
	if dupes := simhash.Duplicates(fps, simhash.DefaultThreshold); len(dupes) > 0 {
		state.job.Duplicates = dupes
	}
	status := state.job.Status
	final := snapshotLocked(&state.job)
	state.mu.Unlock()

	slog.Info("batch job finished",
		"id", final.ID,
		"status", status,
		"completed", final.Total-failed,
		"failed", failed,
		"total", final.Total,
	)

	if req.WebhookURL != "" && b.notifier != nil {
		b.notifier.DeliverAsync(req.WebhookURL, &webhook.Event{
			Type:      "batch.completed",
			JobID:     final.ID,
			Timestamp: time.Now().Unix(),
			Data:      final,
		})
	}
}

// snapshotLocked copies the job into a status response. Callers hold
// the job mutex.
func snapshotLocked(job *models.BatchJob) *models.BatchStatusResponse {
	results := make([]*models.ScrapeResponse, len(job.Results))
	copy(results, job.Results)

	var dupes map[int]int
	if len(job.Duplicates) > 0 {
		dupes = make(map[int]int, len(job.Duplicates))
		for i, j := range job.Duplicates {
			dupes[i] = j
		}
	}

	return &models.BatchStatusResponse{
		ID:         job.ID,
		Status:     job.Status,
		Completed:  job.Completed,
		Total:      job.Total,
		Results:    results,
		Duplicates: dupes,
	}
}

// sweep expires finished jobs past their TTL. Jobs still processing
// are never dropped.
func (b *Batches) sweep() {
	ticker := time.NewTicker(b.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.expire(time.Now().Add(-b.cfg.JobTTL).Unix())
		}
	}
}

func (b *Batches) expire(cutoff int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, state := range b.jobs {
		state.mu.Lock()
		stale := state.job.Status != StatusProcessing && state.job.CreatedAt < cutoff
		state.mu.Unlock()
		if stale {
			delete(b.jobs, id)
		}
	}
}
