package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"shortlink/internal/metrics"
	"shortlink/internal/model"

	"github.com/rs/zerolog/log"
)

type clickJob struct {
	slug string
	rc   model.RequestContext
}

// ClickDispatcher decouples click tracking from the redirect path with a
// bounded queue drained by a fixed pool of workers.
type ClickDispatcher struct {
	recorder ClickRecorder
	queue    chan clickJob
	timeout  time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewClickDispatcher creates a dispatcher and starts its workers
func NewClickDispatcher(recorder ClickRecorder, workers, queueSize int, timeout time.Duration) *ClickDispatcher {
	d := &ClickDispatcher{
		recorder: recorder,
		queue:    make(chan clickJob, queueSize),
		timeout:  timeout,
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}

	log.Info().Int("workers", workers).Int("queue_size", queueSize).Msg("Click dispatcher started")

	return d
}

// Dispatch queues a click and returns immediately. It reports false when the
// click was dropped because the queue is full or the dispatcher is stopped.
func (d *ClickDispatcher) Dispatch(slug string, rc model.RequestContext) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return false
	}

	select {
	case d.queue <- clickJob{slug: slug, rc: rc}:
		metrics.TrackingQueueDepth.Inc()
		return true
	default:
		metrics.ClicksDropped.Inc()
		log.Warn().Str("slug", slug).Msg("Tracking queue full, click dropped")
		return false
	}
}

// Stop refuses new clicks, drains the queue and waits for the workers
func (d *ClickDispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	log.Info().Msg("Click dispatcher stopped")
}

func (d *ClickDispatcher) work() {
	defer d.wg.Done()

	for job := range d.queue {
		metrics.TrackingQueueDepth.Dec()
		d.record(job)
	}
}

func (d *ClickDispatcher) record(job clickJob) {
	// Detached from the request: the redirect has already been answered
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("slug", job.slug).Msg("Click recording panicked")
		}
	}()

	err := d.recorder.Record(ctx, job.slug, &job.rc)
	switch {
	case err == nil:
	case errors.Is(err, ErrLinkNotFound), errors.Is(err, ErrRateLimited):
		log.Debug().Err(err).Str("slug", job.slug).Str("ip", job.rc.ClientIP).Msg("Click not recorded")
	default:
		log.Warn().Err(err).Str("slug", job.slug).Msg("Failed to record click")
	}
}
