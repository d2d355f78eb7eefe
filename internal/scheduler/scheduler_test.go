package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"store_order/internal/models"
	"store_order/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePipeline struct {
	mu      sync.Mutex
	calls   int
	err     error
	entered chan struct{}
	release chan struct{}
}

func (f *fakePipeline) Run(ctx context.Context, directive string) (*services.WorkflowResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &services.WorkflowResult{Directive: directive, Summary: "ok"}, nil
}

func (f *fakePipeline) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type stubRecommendations struct {
	created int
	err     error
}

func (s *stubRecommendations) CreateFromWorkflow(result *services.WorkflowResult) (*models.Recommendation, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created++
	return &models.Recommendation{ID: uint(s.created), Summary: result.Summary}, nil
}

func (s *stubRecommendations) GetByID(id uint) (*models.Recommendation, error) { return nil, nil }
func (s *stubRecommendations) GetItems(id uint) ([]models.OrderItem, error)   { return nil, nil }
func (s *stubRecommendations) List(status string, limit int) ([]models.Recommendation, error) {
	return nil, nil
}
func (s *stubRecommendations) Approve(id uint, reviewer string) (*models.Recommendation, error) {
	return nil, nil
}
func (s *stubRecommendations) Reject(id uint, reviewer string) (*models.Recommendation, error) {
	return nil, nil
}
func (s *stubRecommendations) UpdateItemQuantity(recommendationID, itemID uint, quantity int) (*services.ItemAdjustment, error) {
	return nil, nil
}

func newTestScheduler(t *testing.T, pipeline Pipeline) *Scheduler {
	t.Helper()
	s, err := New(pipeline, &stubRecommendations{}, nil, time.Minute, "06:00", zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestNewRejectsInvalidScheduleTime(t *testing.T) {
	for _, value := range []string{"", "6", "24:00", "06:60", "aa:bb", "06:00:00"} {
		_, err := New(&fakePipeline{}, &stubRecommendations{}, nil, time.Minute, value, zerolog.Nop())
		assert.Error(t, err, "expected %q to be rejected", value)
	}
}

func TestRunNowReturnsRecommendation(t *testing.T) {
	s := newTestScheduler(t, &fakePipeline{})

	rec, err := s.RunNow()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "ok", rec.Summary)
}

func TestRunNowSingleFlight(t *testing.T) {
	pipeline := &fakePipeline{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s := newTestScheduler(t, pipeline)

	done := make(chan error, 1)
	go func() {
		_, err := s.RunNow()
		done <- err
	}()

	// wait until the first run is inside the pipeline
	select {
	case <-pipeline.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first run never started")
	}

	_, err := s.RunNow()
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(pipeline.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, pipeline.callCount())

	// the flag clears once the run finishes
	_, err = s.RunNow()
	require.NoError(t, err)
}

func TestRunNowPipelineError(t *testing.T) {
	pipeline := &fakePipeline{err: errors.New("advisor blew up")}
	s := newTestScheduler(t, pipeline)

	_, err := s.RunNow()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline run failed")

	// a failed run must release the single-flight lock
	pipeline.err = nil
	_, err = s.RunNow()
	require.NoError(t, err)
}

func TestStartStopIdempotent(t *testing.T) {
	s := newTestScheduler(t, &fakePipeline{})

	s.Start()
	s.Start()
	assert.True(t, s.Status().Running)

	s.Stop()
	s.Stop()
	assert.False(t, s.Status().Running)
}

func TestStatusReportsNextRun(t *testing.T) {
	s := newTestScheduler(t, &fakePipeline{})

	status := s.Status()
	assert.False(t, status.Running)
	assert.Nil(t, status.NextRun)
	assert.Equal(t, "06:00", status.ScheduleTime)

	s.Start()
	defer s.Stop()

	// the loop publishes the next firing shortly after start
	require.Eventually(t, func() bool {
		return s.Status().NextRun != nil
	}, 2*time.Second, 10*time.Millisecond)

	next := *s.Status().NextRun
	assert.Equal(t, 6, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))
}

func TestNextAfter(t *testing.T) {
	s := newTestScheduler(t, &fakePipeline{})

	loc := time.UTC
	before := time.Date(2026, 8, 28, 5, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 8, 28, 6, 0, 0, 0, loc), s.nextAfter(before))

	exactly := time.Date(2026, 8, 28, 6, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 8, 29, 6, 0, 0, 0, loc), s.nextAfter(exactly))

	after := time.Date(2026, 8, 28, 7, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 8, 29, 6, 0, 0, 0, loc), s.nextAfter(after))
}
