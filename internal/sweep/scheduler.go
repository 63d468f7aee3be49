package sweep

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// Source supplies the projects and policy for a background sweep pass.
// It is called on every tick so configuration edits take effect without a
// restart.
type Source func() (projects []string, policy Policy)

// Scheduler owns the background sweep timer. Start and Stop are idempotent;
// the zero interval disables scheduling. Safe to use from the composition
// root alongside foreground store reads and writes.
type Scheduler struct {
	source Source

	mu    sync.Mutex
	sched gocron.Scheduler
}

// NewScheduler creates a stopped Scheduler.
func NewScheduler(source Source) *Scheduler {
	return &Scheduler{source: source}
}

// Start begins periodic sweeps at the given interval. Starting an already
// running scheduler is a no-op, as is a non-positive interval.
func (s *Scheduler) Start(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sched != nil || interval <= 0 {
		return nil
	}

	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return err
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.run),
		gocron.WithName("retention-sweep"),
	); err != nil {
		_ = sched.Shutdown()
		return err
	}
	sched.Start()
	s.sched = sched

	logrus.WithField("interval", interval).Info("background sweep started")
	return nil
}

// Stop halts the background sweeps. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

// Running reports whether the background sweep is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil
}

func (s *Scheduler) run() {
	projects, policy := s.source()
	All(projects, policy)
}
