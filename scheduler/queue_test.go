//go:build unit
// +build unit

package scheduler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superdense-team/superdense-engine/core"
)

func newjobInScheduler(id string) *jobInScheduler {
	jd := core.NewJobData()
	jd.ID = id
	u := &core.UnimplementedJob{}
	return &jobInScheduler{
		job:      u.New(jd),
		finished: &sync.WaitGroup{},
	}
}

func setUpTestNormalQueue(t *testing.T, maxSize int) *NormalQueue {
	t.Helper()
	n := &NormalQueue{}
	require.NoError(t, n.Setup(&core.Conf{QueueMaxSize: maxSize}))
	return n
}

func TestPutNormalQueue(t *testing.T) {
	n := setUpTestNormalQueue(t, 1000)

	assert.Nil(t, n.Put(newjobInScheduler("test1")))
	assert.Nil(t, n.Put(newjobInScheduler("test2")))
	assert.Equal(t, 2, n.GetCurrentSize())

	js, err := n.Dequeue(false)
	assert.Nil(t, err)
	assert.Equal(t, "test1", js.job.JobData().ID)
	js, err = n.Dequeue(true)
	assert.Nil(t, err)
	assert.Equal(t, "test2", js.job.JobData().ID)

	_, err = n.Dequeue(false)
	assert.Error(t, err)
}

func TestNormalQueueFull(t *testing.T) {
	n := setUpTestNormalQueue(t, 2)
	assert.Nil(t, n.Put(newjobInScheduler("test1")))
	assert.Nil(t, n.Put(newjobInScheduler("test2")))
	assert.ErrorIs(t, n.Put(newjobInScheduler("test3")), ErrQueueFull)
	assert.Equal(t, 2, n.GetCurrentSize())

	assert.Nil(t, n.putStop())
	assert.Equal(t, 3, n.GetCurrentSize())
}

func TestNormalQueueWaitsForNextElement(t *testing.T) {
	n := setUpTestNormalQueue(t, 10)
	got := make(chan string)
	go func() {
		js, err := n.Dequeue(true)
		if err != nil {
			got <- err.Error()
			return
		}
		got <- js.job.JobData().ID
	}()
	assert.Nil(t, n.Put(newjobInScheduler("late")))
	assert.Equal(t, "late", <-got)
}

func TestNormalQueueSetupError(t *testing.T) {
	n := &NormalQueue{}
	assert.EqualError(t, n.Setup(&core.Conf{QueueMaxSize: 0}), "queue max size(0) must be greater than 0")
}

func TestNormalQueueRejectsPutAfterStop(t *testing.T) {
	n := setUpTestNormalQueue(t, 10)
	require.NoError(t, n.putStop())

	assert.ErrorIs(t, n.Put(newjobInScheduler("late")), ErrQueueStopped)
	assert.Equal(t, 1, n.GetCurrentSize())

	jis, err := n.Dequeue(false)
	require.NoError(t, err)
	assert.True(t, jis.stop)
}
