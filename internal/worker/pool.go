// Package worker bounds how many blocking upstream calls run at once.
package worker

import (
	"context"

	"golang.org/x/sync/semaphore"
)

const DefaultSize = 3

// Observer is told when a task starts and finishes running.
type Observer interface {
	TaskStarted()
	TaskFinished()
}

// Pool is a fixed number of slots shared by the whole process. It holds no
// per-task state.
type Pool struct {
	sem      *semaphore.Weighted
	size     int
	observer Observer
}

func NewPool(size int, observer Observer) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	return &Pool{
		sem:      semaphore.NewWeighted(int64(size)),
		size:     size,
		observer: observer,
	}
}

func (p *Pool) Size() int { return p.size }

type result[T any] struct {
	val T
	err error
}

// Run waits for a free slot, then runs fn on its own goroutine and waits for
// its result. If ctx ends first the caller stops waiting; fn keeps its slot
// until it returns.
func Run[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}
	if p.observer != nil {
		p.observer.TaskStarted()
	}

	done := make(chan result[T], 1)
	go func() {
		v, err := fn(ctx)
		if p.observer != nil {
			p.observer.TaskFinished()
		}
		p.sem.Release(1)
		done <- result[T]{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
