package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
)

var (
	// ErrQueueFull is returned by Submit when the job queue has no room.
	ErrQueueFull = errors.New("job queue is full")
	// ErrStopped is returned when submitting to a stopped orchestrator.
	ErrStopped = errors.New("pipeline stopped")
)

// Orchestrator manages the outline pipeline: a bounded queue feeding a fixed
// pool of workers.
type Orchestrator struct {
	jobs       *JobStore
	queue      chan *Job
	classifier *outline.Classifier
	stats      *Stats
	log        *slog.Logger
	cfg        config.Config

	mu      sync.RWMutex
	stopped bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start before submitting.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		classifier: outline.NewClassifier(outline.Config{
			MaxCandidateLength: cfg.MaxCandidateLength,
			TitleFallback:      cfg.TitleFallback,
		}),
		stats: NewStats(cfg.JobTTL),
		log:   log,
		cfg:   cfg,
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
			w := NewWorker(o.classifier, o.stats, o.log, o.cfg.MetadataTitleFallback)
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
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Jobs still queued are failed so
// their waiters are released.
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

	for job := range o.queue {
		job.AddError(ErrStopped.Error())
		job.Finish(StatusFailed, 0)
	}
}

// Submit queues a new job for processing without blocking. A job rejected
// because the queue is full is marked failed.
func (o *Orchestrator) Submit(job *Job) error {
	err := o.enqueue(context.Background(), job, false)
	if errors.Is(err, ErrQueueFull) {
		job.AddError(err.Error())
		job.Finish(StatusFailed, 0)
	}
	return err
}

// SubmitWait queues a job, waiting for room in the queue until ctx is done.
func (o *Orchestrator) SubmitWait(ctx context.Context, job *Job) error {
	return o.enqueue(ctx, job, true)
}

func (o *Orchestrator) enqueue(ctx context.Context, job *Job, wait bool) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.stopped {
		return ErrStopped
	}

	o.jobs.Put(job)
	if !wait {
		select {
		case o.queue <- job:
			return nil
		default:
			return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
		}
	}
	select {
	case o.queue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Process runs one job synchronously on the caller's goroutine, bypassing
// the queue. It uses the same classifier and stats as the pool.
func (o *Orchestrator) Process(ctx context.Context, job *Job) {
	o.jobs.Put(job)
	NewWorker(o.classifier, o.stats, o.log, o.cfg.MetadataTitleFallback).Process(ctx, job)
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the processing stats shared by all workers.
func (o *Orchestrator) Stats() *Stats {
	return o.stats
}

// Config returns the configuration the pipeline was built with.
func (o *Orchestrator) Config() config.Config {
	return o.cfg
}
