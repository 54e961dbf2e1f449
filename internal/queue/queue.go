// Package queue is a FIFO of deferred tasks run on the owner's next loop turn.
package queue

import (
	"sync"

	"go.uber.org/multierr"
)

// Task is a deferred unit of work.
type Task func() error

// Queue collects posted tasks until Drain runs them in post order.
// Posting is safe from any goroutine; Drain belongs to the owning loop.
type Queue struct {
	mu    sync.Mutex
	tasks []Task
}

func New() *Queue {
	return &Queue{}
}

// Post appends t. Nil tasks are ignored.
func (q *Queue) Post(t Task) {
	if t == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drain runs pending tasks until the queue is empty, including tasks posted
// by running tasks. Every task runs; errors are combined.
func (q *Queue) Drain() error {
	var err error
	for {
		q.mu.Lock()
		batch := q.tasks
		q.tasks = nil
		q.mu.Unlock()
		if len(batch) == 0 {
			return err
		}
		for _, t := range batch {
			err = multierr.Append(err, t())
		}
	}
}
