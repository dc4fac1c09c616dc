package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/infrastructure/metrics"
	"github.com/griffinm/jotter/internal/infrastructure/queue"
)

const depthSampleInterval = 10 * time.Second

// Pool manages the background workers draining the message queue.
type Pool struct {
	workers       []*Worker
	queue         queue.Queue
	processor     Processor
	conversations conversation.Repository
	metrics       *metrics.Metrics
	cfg           Config
	log           zerolog.Logger
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// Config contains worker pool configuration.
type Config struct {
	WorkerCount  int
	PollInterval time.Duration
	JobTimeout   time.Duration
}

// NewPool creates a worker pool.
func NewPool(
	q queue.Queue,
	processor Processor,
	conversations conversation.Repository,
	m *metrics.Metrics,
	cfg Config,
	log zerolog.Logger,
) *Pool {
	return &Pool{
		queue:         q,
		processor:     processor,
		conversations: conversations,
		metrics:       m,
		cfg:           cfg,
		log:           log.With().Str("component", "worker-pool").Logger(),
		stopChan:      make(chan struct{}),
	}
}

// Start launches every worker plus the queue depth sampler.
func (p *Pool) Start(ctx context.Context) error {
	p.log.Info().Int("worker_count", p.cfg.WorkerCount).Msg("starting worker pool")

	p.workers = make([]*Worker, p.cfg.WorkerCount)
	for i := 0; i < p.cfg.WorkerCount; i++ {
		worker := NewWorker(
			i+1,
			p.queue,
			p.processor,
			p.conversations,
			p.metrics,
			p.cfg.PollInterval,
			p.cfg.JobTimeout,
			p.log,
		)
		p.workers[i] = worker

		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Start(ctx)
		}(worker)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.sampleQueueDepth(ctx)
	}()

	p.log.Info().Msg("worker pool started")
	return nil
}

// Stop gracefully shuts down all workers.
func (p *Pool) Stop() {
	p.log.Info().Msg("stopping worker pool")

	close(p.stopChan)
	for _, worker := range p.workers {
		worker.Stop()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info().Msg("all workers stopped gracefully")
	case <-time.After(30 * time.Second):
		p.log.Warn().Msg("worker pool shutdown timed out")
	}
}

func (p *Pool) sampleQueueDepth(ctx context.Context) {
	ticker := time.NewTicker(depthSampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			depth, err := p.queue.Depth(ctx)
			if err != nil {
				p.log.Warn().Err(err).Msg("failed to sample queue depth")
				continue
			}
			p.metrics.QueueDepth.Set(float64(depth))
		}
	}
}
