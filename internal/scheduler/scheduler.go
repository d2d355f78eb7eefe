package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"store_order/internal/models"
	"store_order/internal/redis"
	"store_order/internal/services"

	"github.com/rs/zerolog"
)

// ErrRunInProgress is returned when a trigger fires while a prior pipeline
// run is still in flight. The trigger is skipped, never queued.
var ErrRunInProgress = errors.New("pipeline run already in progress")

// Pipeline is the coordinator contract the scheduler drives.
type Pipeline interface {
	Run(ctx context.Context, directive string) (*services.WorkflowResult, error)
}

// Status reports the scheduler state for the status endpoint.
type Status struct {
	Running      bool       `json:"running"`
	InFlight     bool       `json:"in_flight"`
	ScheduleTime string     `json:"schedule_time"`
	NextRun      *time.Time `json:"next_run,omitempty"`
}

// Scheduler fires the restock pipeline once a day at a configured time and
// on demand. All state is owned by the instance and guarded by its mutex;
// there is no package-level state.
type Scheduler struct {
	pipeline        Pipeline
	recommendations services.RecommendationService
	cache           *redis.Client
	cacheTTL        time.Duration
	log             zerolog.Logger

	hour   int
	minute int
	now    func() time.Time

	mu       sync.Mutex
	started  bool
	inFlight bool
	nextRun  time.Time
	stop     chan struct{}
}

func New(pipeline Pipeline, recommendations services.RecommendationService, cache *redis.Client, cacheTTL time.Duration, scheduleTime string, log zerolog.Logger) (*Scheduler, error) {
	hour, minute, err := parseScheduleTime(scheduleTime)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		pipeline:        pipeline,
		recommendations: recommendations,
		cache:           cache,
		cacheTTL:        cacheTTL,
		log:             log,
		hour:            hour,
		minute:          minute,
		now:             time.Now,
	}, nil
}

func parseScheduleTime(value string) (int, int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid schedule time %q (expected HH:MM)", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid schedule hour %q", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid schedule minute %q", parts[1])
	}
	return hour, minute, nil
}

// Start launches the timer goroutine. Calling Start on a started scheduler
// is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.log.Warn().Msg("scheduler already started")
		return
	}
	s.started = true
	s.stop = make(chan struct{})
	go s.loop(s.stop)

	s.log.Info().Str("schedule_time", fmt.Sprintf("%02d:%02d", s.hour, s.minute)).Msg("scheduler started")
}

// Stop cancels future firings. An in-flight run is not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	close(s.stop)
	s.log.Info().Msg("scheduler stopped")
}

// RunNow triggers the pipeline immediately with the same single-flight
// guarantee as the daily trigger.
func (s *Scheduler) RunNow() (*models.Recommendation, error) {
	return s.runOnce("manual")
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := Status{
		Running:      s.started,
		InFlight:     s.inFlight,
		ScheduleTime: fmt.Sprintf("%02d:%02d", s.hour, s.minute),
	}
	if s.started {
		next := s.nextRun
		status.NextRun = &next
	}
	return status
}

func (s *Scheduler) loop(stop chan struct{}) {
	for {
		next := s.nextAfter(s.now())
		s.mu.Lock()
		s.nextRun = next
		s.mu.Unlock()

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-timer.C:
			if _, err := s.runOnce("scheduled"); err != nil {
				if errors.Is(err, ErrRunInProgress) {
					s.log.Warn().Msg("scheduled trigger skipped: run already in flight")
				} else {
					s.log.Error().Err(err).Msg("scheduled pipeline run failed")
				}
			}
		case <-stop:
			timer.Stop()
			return
		}
	}
}

// nextAfter returns the next daily firing strictly after t.
func (s *Scheduler) nextAfter(t time.Time) time.Time {
	next := time.Date(t.Year(), t.Month(), t.Day(), s.hour, s.minute, 0, 0, t.Location())
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// runOnce executes one guarded pipeline run. The in-flight flag is the
// single-flight lock: a second trigger observes it and backs off.
func (s *Scheduler) runOnce(trigger string) (*models.Recommendation, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	s.log.Info().Str("trigger", trigger).Msg("pipeline run starting")

	result, err := s.pipeline.Run(context.Background(), services.DefaultDirective)
	if err != nil {
		return nil, fmt.Errorf("pipeline run failed: %w", err)
	}

	rec, err := s.recommendations.CreateFromWorkflow(result)
	if err != nil {
		return nil, fmt.Errorf("failed to save recommendation: %w", err)
	}

	if s.cache != nil {
		summary := &redis.RunSummary{
			RecommendationID: rec.ID,
			Date:             rec.RecommendationDate.Format("2006-01-02"),
			TotalItems:       rec.TotalItems,
			TotalCost:        rec.TotalCost.StringFixed(0),
			Trigger:          trigger,
			GeneratedAt:      s.now(),
		}
		if err := s.cache.SetLatestRun(summary, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache run summary")
		}
	}

	return rec, nil
}
