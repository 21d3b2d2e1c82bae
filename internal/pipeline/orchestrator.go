package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/filingsight/internal/config"
	"github.com/dgallion1/filingsight/internal/mdrender"
)

// ErrQueueFull is returned by Submit when no queue slot is free.
var ErrQueueFull = errors.New("job queue is full")

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("pipeline is stopped")

// Orchestrator manages the filing analysis pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	gen      Generator
	renderer *mdrender.Renderer
	log      *slog.Logger
	cfg      config.Config
	opts     WorkerOptions

	cleanupInterval time.Duration

	mu      sync.RWMutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, gen Generator, renderer *mdrender.Renderer, model string, log *slog.Logger) *Orchestrator {
	interval := 5 * time.Minute
	if cfg.JobTTL > 0 && cfg.JobTTL/2 < interval {
		interval = cfg.JobTTL / 2
	}
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		gen:      gen,
		renderer: renderer,
		log:      log,
		cfg:      cfg,
		opts: WorkerOptions{
			MaxPromptTokens:      cfg.MaxPromptTokens,
			InlinePDF:            cfg.InlinePDF,
			PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
			MaxRetries:           MaxRetries,
			Backoff:              Backoff,
			Model:                model,
		},
		cleanupInterval: interval,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.gen, o.renderer, o.log, o.opts)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(o.cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if n := o.jobs.Cleanup(); n > 0 {
					o.log.Debug("expired jobs removed", "count", n)
				}
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.stopped {
		return ErrStopped
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// JobCount returns the number of tracked jobs.
func (o *Orchestrator) JobCount() int {
	return o.jobs.Len()
}
