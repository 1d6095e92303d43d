package scheduler

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/freshtrack-backend/internal/config"
	"github.com/your-org/freshtrack-backend/internal/domain/expiry"
)

// countingSweeper records how often it ran
type countingSweeper struct {
	mu   sync.Mutex
	runs int
	err  error
}

func (s *countingSweeper) RunSweep(ctx context.Context, now time.Time) (*expiry.SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	if s.err != nil {
		return nil, s.err
	}
	return &expiry.SweepResult{}, nil
}

func (s *countingSweeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func newTestScheduler(sweeper *countingSweeper, interval time.Duration, runOnStart bool) *SweepScheduler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		Expiry: config.ExpiryConfig{
			SweepInterval: interval,
			SweepOnStart:  runOnStart,
		},
	}

	return NewSweepScheduler(cfg, logger, sweeper)
}

func TestSweepSchedulerRunsOnStart(t *testing.T) {
	sweeper := &countingSweeper{}
	s := newTestScheduler(sweeper, time.Hour, true)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return sweeper.count() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSweepSchedulerTicks(t *testing.T) {
	sweeper := &countingSweeper{}
	s := newTestScheduler(sweeper, 20*time.Millisecond, false)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return sweeper.count() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestSweepSchedulerStopIsIdempotent(t *testing.T) {
	sweeper := &countingSweeper{}
	s := newTestScheduler(sweeper, time.Hour, false)

	s.Start()
	s.Start() // second start is a no-op

	s.Stop()
	s.Stop() // second stop is a no-op

	after := sweeper.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, sweeper.count())
}

func TestSweepSchedulerToleratesInProgress(t *testing.T) {
	sweeper := &countingSweeper{err: expiry.ErrSweepInProgress}
	s := newTestScheduler(sweeper, time.Hour, true)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return sweeper.count() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestRunNow(t *testing.T) {
	sweeper := &countingSweeper{}
	s := newTestScheduler(sweeper, time.Hour, false)

	s.RunNow()
	assert.Equal(t, 1, sweeper.count())
}
