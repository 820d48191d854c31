package scheduler

import (
	"errors"
	"fmt"
	"sync"

	conq "github.com/enriquebris/goconcurrentqueue"
	"github.com/superdense-team/superdense-engine/core"
	"go.uber.org/zap"
)

var (
	ErrQueueFull    = errors.New("queue is full")
	ErrQueueStopped = errors.New("scheduler is stopping")
)

type fifo interface {
	Enqueue(*jobInScheduler) error
	Dequeue() (*jobInScheduler, error)
	DequeueOrWaitForNextElement() (*jobInScheduler, error)
	GetLen() int
}

type conqFIFO struct {
	*conq.FIFO
}

func newConqFIFO() *conqFIFO {
	return &conqFIFO{
		FIFO: conq.NewFIFO(),
	}
}

func (c *conqFIFO) Enqueue(js *jobInScheduler) error {
	return c.FIFO.Enqueue(js)
}

func (c *conqFIFO) Dequeue() (*jobInScheduler, error) {
	tmp, err := c.FIFO.Dequeue()
	if err != nil {
		return nil, err
	}
	return tmp.(*jobInScheduler), nil
}

func (c *conqFIFO) DequeueOrWaitForNextElement() (*jobInScheduler, error) {
	tmp, err := c.FIFO.DequeueOrWaitForNextElement()
	if err != nil {
		return nil, err
	}
	return tmp.(*jobInScheduler), nil
}

func (c *conqFIFO) GetLen() int {
	return c.FIFO.GetLen()
}

// NormalQueue is a bounded FIFO of jobs waiting for the worker.
type NormalQueue struct {
	fifo     fifo
	maxSize  int
	mu       sync.Mutex
	stopping bool
}

func (n *NormalQueue) Setup(conf *core.Conf) error {
	if conf.QueueMaxSize <= 0 {
		return fmt.Errorf("queue max size(%d) must be greater than 0", conf.QueueMaxSize)
	}
	n.maxSize = conf.QueueMaxSize
	n.fifo = newConqFIFO()
	return nil
}

// Put enqueues jis. It returns ErrQueueFull when maxSize jobs are waiting and
// ErrQueueStopped once the stop marker is queued.
func (n *NormalQueue) Put(jis *jobInScheduler) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	jid := jis.job.JobData().ID
	if n.stopping {
		zap.L().Info(fmt.Sprintf("Failed to put %s. Normal Queue is stopping.", jid))
		return ErrQueueStopped
	}
	if n.maxSize <= n.fifo.GetLen() {
		zap.L().Info(fmt.Sprintf("Failed to put %s. Normal Queue is full.", jid))
		return ErrQueueFull
	}
	zap.L().Debug(fmt.Sprintf("Putting %s to normalQueue", jid))
	if err := n.fifo.Enqueue(jis); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to put %s to normalQueue. Reason:%s", jid, err))
		return err
	}
	return nil
}

// putStop enqueues the stop marker regardless of the size limit.
// Nothing can be put after it.
func (n *NormalQueue) putStop() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fifo.Enqueue(&jobInScheduler{stop: true}); err != nil {
		return err
	}
	n.stopping = true
	return nil
}

// Dequeue blocks until the next element is enqueued when wait is true.
func (n *NormalQueue) Dequeue(wait bool) (*jobInScheduler, error) {
	var jis *jobInScheduler
	var err error
	if wait {
		jis, err = n.fifo.DequeueOrWaitForNextElement()
	} else {
		jis, err = n.fifo.Dequeue()
	}
	if err != nil {
		zap.L().Debug("no job in NormalQueue.", zap.Error(err))
		return nil, err
	}
	if !jis.stop {
		zap.L().Debug(fmt.Sprintf("Dequeued job:%s", jis.job.JobData().ID))
	}
	return jis, nil
}

func (n *NormalQueue) GetCurrentSize() int {
	return n.fifo.GetLen()
}
