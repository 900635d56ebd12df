// internal/service/curation/scheduler.go

package curation

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// SchedulerConfig contains configuration for the report scheduler
type SchedulerConfig struct {
	Interval time.Duration
	Horizon  int
}

// Scheduler rebuilds the full report on a fixed interval so report events
// reach stream subscribers without a request
type Scheduler struct {
	service *Service
	config  SchedulerConfig
	logger  *log.Logger
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
}

// NewScheduler creates a new report scheduler
func NewScheduler(service *Service, logger *log.Logger, config SchedulerConfig) *Scheduler {
	return &Scheduler{
		service: service,
		config:  config,
		logger:  logger,
	}
}

// Start begins the periodic report loop. A non-positive interval disables it.
func (s *Scheduler) Start(ctx context.Context) {
	if s.config.Interval <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Report scheduler started", "interval", s.config.Interval)
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Failures are logged and counted by the service
			_, _ = s.service.Report(ctx, ReportRequest{Horizon: s.config.Horizon})
		}
	}
}

// Stop stops the loop and waits for an in-flight report to finish
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	c := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(c)
	}()

	select {
	case <-c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
