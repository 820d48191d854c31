package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/superdense-team/superdense-engine/core"
	"go.uber.org/zap"
)

const stopTimeout = 10 * time.Second

var dequeueRetryInterval = 100 * time.Millisecond

// NormalScheduler pre- and post-processes jobs on the caller's goroutine and
// runs Process on a single worker fed by NormalQueue.
type NormalScheduler struct {
	queue *NormalQueue

	succeeded atomic.Uint64
	failed    atomic.Uint64

	started  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
}

type jobInScheduler struct {
	job      core.Job
	finished *sync.WaitGroup
	stop     bool
}

func (n *NormalScheduler) Setup(conf *core.Conf) error {
	n.queue = &NormalQueue{}
	if err := n.queue.Setup(conf); err != nil {
		return err
	}
	n.done = make(chan struct{})
	return nil
}

func (n *NormalScheduler) Start() error {
	if !n.started.CompareAndSwap(false, true) {
		return fmt.Errorf("scheduler is already started")
	}
	go n.work()
	return nil
}

func (n *NormalScheduler) work() {
	defer close(n.done)
	for {
		zap.L().Debug("checking the queue...")
		jis, err := n.queue.Dequeue(true)
		if err != nil {
			zap.L().Error(fmt.Sprintf("failed to get job from queue. Reason:%s", err))
			time.Sleep(dequeueRetryInterval)
			continue
		}
		if jis.stop {
			zap.L().Debug("scheduler worker is stopping")
			return
		}
		jid := jis.job.JobData().ID
		zap.L().Debug(fmt.Sprintf("processing job:%s", jid))
		jis.job.JobData().Status = core.RUNNING
		runStage(jis.job, "process", jis.job.Process)
		zap.L().Debug(fmt.Sprintf("finished to process job(%s), status:%s", jid, jis.job.JobData().Status))
		jis.finished.Done()
	}
}

// HandleJob returns once j is finished.
func (n *NormalScheduler) HandleJob(j core.Job) {
	jid := j.JobData().ID
	zap.L().Debug(fmt.Sprintf("starting to handle job(%s) in %s", jid, j.JobData().Status))
	defer func() {
		if j.JobData().Status == core.FAILED {
			n.failed.Add(1)
		} else {
			n.succeeded.Add(1)
		}
	}()
	n.handleImpl(j)
}

func (n *NormalScheduler) handleImpl(j core.Job) {
	jid := j.JobData().ID
	if j.JobData().Status != core.READY {
		zap.L().Error(
			fmt.Sprintf("finished to handle job(%s) with unexpected status:%s", jid, j.JobData().Status))
		return
	}
	zap.L().Debug(fmt.Sprintf("handling job(%s). start pre-processing", jid))
	runStage(j, "pre-process", j.PreProcess)
	if j.IsFinished() {
		zap.L().Debug(fmt.Sprintf("finished to handle job(%s) after pre-processing with status:%s",
			jid, j.JobData().Status))
		return
	}
	if !n.started.Load() {
		core.SetFailureWithError(j, fmt.Errorf("scheduler is not started"))
		return
	}
	var wg sync.WaitGroup
	wg.Add(1)
	if err := n.queue.Put(&jobInScheduler{job: j, finished: &wg}); err != nil {
		core.SetFailureWithError(j, err)
		return
	}
	wg.Wait()
	if j.IsFinished() {
		zap.L().Debug(fmt.Sprintf("finished to handle job(%s) after processing with status:%s",
			jid, j.JobData().Status))
		return
	}
	zap.L().Debug(fmt.Sprintf("handling job(%s). start post-processing", jid))
	runStage(j, "post-process", j.PostProcess)
	if !j.IsFinished() {
		core.SetFailureWithError(j, fmt.Errorf("job %s is not finished after post-processing", jid))
	}
	zap.L().Debug(fmt.Sprintf("finished to handle job(%s) after post-processing with status:%s",
		jid, j.JobData().Status))
}

// runStage marks the job failed if the stage panics.
func runStage(j core.Job, stage string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			msg := core.SetFailureWithError(j, fmt.Errorf("panic in %s: %v", stage, r))
			zap.L().Error(fmt.Sprintf("recovered job(%s)/reason:%s", j.JobData().ID, msg))
		}
	}()
	f()
}

func (n *NormalScheduler) GetCurrentQueueSize() int {
	if n.queue == nil {
		return 0
	}
	return n.queue.GetCurrentSize()
}

func (n *NormalScheduler) GetStats() core.SchedulerStats {
	return core.SchedulerStats{
		Succeeded: n.succeeded.Load(),
		Failed:    n.failed.Load(),
	}
}

// TearDown stops the worker after the jobs already queued are processed.
func (n *NormalScheduler) TearDown() error {
	if !n.started.Load() {
		return nil
	}
	var err error
	n.stopOnce.Do(func() {
		if err = n.queue.putStop(); err != nil {
			return
		}
		select {
		case <-n.done:
		case <-time.After(stopTimeout):
			err = fmt.Errorf("scheduler worker did not stop within %s", stopTimeout)
		}
	})
	return err
}
