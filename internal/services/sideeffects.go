package services

import (
	"context"
	"sync"

	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

// Task is one post-commit side effect: notification fan-out, activity trail,
// email. Tasks run at most once and are never retried; a missed side effect is
// acceptable, a double-applied one is not.
type Task struct {
	Name string
	Run  func(ctx context.Context)
}

// SideEffectQueue decouples side effects from the request path. Effects are
// enqueued only after the owning transaction commits.
type SideEffectQueue struct {
	log     *logger.Logger
	tasks   chan Task
	workers int

	startOnce sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewSideEffectQueue(log *logger.Logger, buffer, workers int) *SideEffectQueue {
	if buffer <= 0 {
		buffer = 256
	}
	if workers <= 0 {
		workers = 4
	}
	return &SideEffectQueue{
		log:     log.With("service", "SideEffectQueue"),
		tasks:   make(chan Task, buffer),
		workers: workers,
	}
}

func (q *SideEffectQueue) Start(ctx context.Context) {
	if q == nil {
		return
	}
	q.startOnce.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go q.worker(ctx)
		}
	})
}

func (q *SideEffectQueue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-q.tasks:
			if !ok {
				return
			}
			q.runOne(ctx, task)
		}
	}
}

func (q *SideEffectQueue) runOne(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("side effect panicked", "task", task.Name, "panic", r)
		}
	}()
	if task.Run == nil {
		return
	}
	task.Run(ctx)
}

// Enqueue never blocks the request path: when the buffer is full the task is
// dropped with a warning, consistent with at-most-once delivery.
func (q *SideEffectQueue) Enqueue(task Task) {
	if q == nil || task.Run == nil {
		return
	}
	select {
	case q.tasks <- task:
	default:
		q.log.Warn("side effect queue full, dropping task", "task", task.Name)
	}
}

func (q *SideEffectQueue) Close() {
	if q == nil {
		return
	}
	q.closeOnce.Do(func() {
		close(q.tasks)
		q.wg.Wait()
	})
}

// runAfterCommit hands the effect to the queue when one is wired, otherwise
// runs it inline (tests, one-shot tools).
func runAfterCommit(q *SideEffectQueue, name string, fn func(ctx context.Context)) {
	if fn == nil {
		return
	}
	if q != nil {
		q.Enqueue(Task{Name: name, Run: fn})
		return
	}
	fn(context.Background())
}
