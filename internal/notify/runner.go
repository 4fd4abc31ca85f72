package notify

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/kongyujesse/portfolio-backend/internal/metrics"
)

type Task func(ctx context.Context)

type RunnerConfig struct {
	WorkerCount int
	QueueSize   int
}

type job struct {
	name string
	task Task
}

// Runner executes fire-and-forget tasks on a fixed worker pool fed by a
// bounded queue. Submitting never blocks the caller.
type Runner struct {
	config    RunnerConfig
	queue     chan job
	waitGroup sync.WaitGroup
	logger    Logger
	metrics   *metrics.Metrics

	mu      sync.RWMutex
	stopped bool

	startOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewRunner(config RunnerConfig, logger Logger, m *metrics.Metrics) *Runner {
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	if config.QueueSize < 1 {
		config.QueueSize = 128
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		config:  config,
		queue:   make(chan job, config.QueueSize),
		logger:  orNop(logger),
		metrics: m,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (runner *Runner) Start() {
	runner.startOnce.Do(func() {
		for range runner.config.WorkerCount {
			runner.waitGroup.Add(1)
			go func() {
				defer runner.waitGroup.Done()
				for item := range runner.queue {
					runner.metrics.SetQueueDepth(len(runner.queue))
					runner.run(item)
				}
			}()
		}
	})
}

// Go queues task under name. When the queue is full or the runner has been
// stopped the task is dropped, logged and counted, and the reason returned.
func (runner *Runner) Go(name string, task Task) error {
	runner.mu.RLock()
	defer runner.mu.RUnlock()

	if runner.stopped {
		runner.drop(name, ErrStopped, "stopped")
		return ErrStopped
	}

	select {
	case runner.queue <- job{name: name, task: task}:
		runner.metrics.RecordTaskAccepted(name)
		runner.metrics.SetQueueDepth(len(runner.queue))
		return nil
	default:
		runner.drop(name, ErrQueueFull, "queue_full")
		return ErrQueueFull
	}
}

// Stop refuses new tasks and waits for queued ones. When ctx ends first the
// tasks still running are cancelled and ctx's error is returned.
func (runner *Runner) Stop(ctx context.Context) error {
	runner.mu.Lock()
	if runner.stopped {
		runner.mu.Unlock()
		return nil
	}
	runner.stopped = true
	close(runner.queue)
	runner.mu.Unlock()

	// Workers may never have started; make sure the queue still drains.
	runner.Start()

	done := make(chan struct{})
	go func() {
		runner.waitGroup.Wait()
		close(done)
	}()

	select {
	case <-done:
		runner.cancel()
		return nil
	case <-ctx.Done():
		runner.cancel()
		runner.logger.Warn("notify runner stopped before queue drained", "pending", len(runner.queue))
		return ctx.Err()
	}
}

func (runner *Runner) run(item job) {
	defer func() {
		if recovered := recover(); recovered != nil {
			runner.metrics.RecordTaskPanic()
			runner.logger.Error("notify task panicked",
				"task", item.name,
				"panic", fmt.Sprint(recovered),
				"stack", string(debug.Stack()),
			)
		}
	}()
	item.task(runner.ctx)
}

func (runner *Runner) drop(name string, err error, reason string) {
	runner.metrics.RecordTaskDropped(reason)
	runner.logger.Warn("notify task dropped", "task", name, "error", err)
}
