package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/PulseHub_Go/internal/testing/leaktest"
)

type testJob struct {
	executed *int32
}

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	return nil
}

func TestPool(t *testing.T) {
	var executed int32
	pool := NewPool(2, 10, time.Second)
	pool.Start()

	job := &testJob{executed: &executed}
	assert.True(t, pool.Enqueue(job))
	assert.True(t, pool.Enqueue(job))

	pool.Stop()

	assert.Equal(t, int32(2), atomic.LoadInt32(&executed))
}

func TestPool_EnqueueFullQueue(t *testing.T) {
	pool := NewPool(1, 1, time.Second)
	// not started, so the single slot stays occupied
	var executed int32
	assert.True(t, pool.Enqueue(&testJob{executed: &executed}))
	assert.False(t, pool.Enqueue(&testJob{executed: &executed}))

	pool.Start()
	pool.Stop()
	assert.Equal(t, int32(1), atomic.LoadInt32(&executed))
}

func TestPool_RejectsAfterStop(t *testing.T) {
	pool := NewPool(1, 1, time.Second)
	pool.Start()
	pool.Stop()
	pool.Stop()

	var executed int32
	assert.False(t, pool.Enqueue(&testJob{executed: &executed}))
}

func TestPool_SurvivesFailingAndPanickingJobs(t *testing.T) {
	var executed int32
	pool := NewPool(1, 10, time.Second)
	pool.Start()

	pool.Enqueue(JobFunc(func(ctx context.Context) error { return errors.New("fail") }))
	pool.Enqueue(JobFunc(func(ctx context.Context) error { panic("boom") }))
	pool.Enqueue(&testJob{executed: &executed})

	pool.Stop()
	assert.Equal(t, int32(1), atomic.LoadInt32(&executed))
}

func TestPool_JobTimeout(t *testing.T) {
	pool := NewPool(1, 1, 20*time.Millisecond)
	pool.Start()

	done := make(chan error, 1)
	pool.Enqueue(JobFunc(func(ctx context.Context) error {
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	}))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("job context was not bounded")
	}
	pool.Stop()
}

func TestPool_StopReleasesWorkers(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		var executed int32
		pool := NewPool(4, 10, time.Second)
		pool.Start()
		for i := 0; i < 8; i++ {
			pool.Enqueue(&testJob{executed: &executed})
		}
		pool.Stop()
		assert.Equal(t, int32(8), atomic.LoadInt32(&executed))
	})
}
