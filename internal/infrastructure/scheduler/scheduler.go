// internal/infrastructure/scheduler/scheduler.go
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/freshtrack-backend/internal/config"
	"github.com/your-org/freshtrack-backend/internal/domain/expiry"
)

// Sweeper is the operation the scheduler drives on its interval
type Sweeper interface {
	RunSweep(ctx context.Context, now time.Time) (*expiry.SweepResult, error)
}

// SweepScheduler owns the recurring expiry sweep as an explicit background
// task with a start/stop lifecycle. The sweep itself stays a pure function
// of (batches, rules, now); the scheduler only supplies the clock.
type SweepScheduler struct {
	engine     Sweeper
	logger     *logrus.Logger
	interval   time.Duration
	runOnStart bool
	now        func() time.Time

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewSweepScheduler creates a new sweep scheduler
func NewSweepScheduler(cfg *config.Config, logger *logrus.Logger, engine Sweeper) *SweepScheduler {
	return &SweepScheduler{
		engine:     engine,
		logger:     logger,
		interval:   cfg.Expiry.SweepInterval,
		runOnStart: cfg.Expiry.SweepOnStart,
		now:        time.Now,
	}
}

// Start begins the scheduler loop
func (s *SweepScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	s.ticker = time.NewTicker(s.interval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run()

	s.logger.WithField("interval", s.interval.String()).Info("Sweep scheduler started")
}

// Stop stops the scheduler and waits for an in-flight sweep to finish
func (s *SweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false

	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()

	s.logger.Info("Sweep scheduler stopped")
}

func (s *SweepScheduler) run() {
	defer s.wg.Done()

	if s.runOnStart {
		s.sweep()
	}

	for {
		select {
		case <-s.ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *SweepScheduler) sweep() {
	ctx := context.Background()

	result, err := s.engine.RunSweep(ctx, s.now())
	if err != nil {
		if errors.Is(err, expiry.ErrSweepInProgress) {
			s.logger.Info("Skipping sweep, another instance holds the lock")
			return
		}
		s.logger.WithError(err).Error("Scheduled expiry sweep failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"batches_updated": result.BatchesUpdated,
		"alerts_created":  result.AlertsCreated,
		"products_synced": result.ProductsSynced,
	}).Info("Scheduled expiry sweep completed")
}

// RunNow triggers an immediate sweep outside the schedule
func (s *SweepScheduler) RunNow() {
	s.sweep()
}
