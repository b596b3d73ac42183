package cache

import (
	"image"
	"slices"
	"sync"

	"github.com/matjam/sldshow/internal/types"
)

type job struct {
	index      int
	generation uint64
	path       string
	size       image.Point
	filter     types.ResizeFilter
}

// workQueue is a blocking FIFO the loop can reorder and prune while workers
// wait on it.
type workQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []job
	closed bool
}

func newWorkQueue() *workQueue {
	q := &workQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *workQueue) Push(j job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.jobs = append(q.jobs, j)
	q.cond.Signal()
}

// Pop blocks until a job is available. It returns false once the queue is
// closed.
func (q *workQueue) Pop() (job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.jobs) == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return job{}, false
	}
	j := q.jobs[0]
	q.jobs = q.jobs[1:]
	return j, true
}

// Retain drops every job for which rank reports false and orders the rest by
// ascending rank. It returns the number of dropped jobs.
func (q *workQueue) Retain(rank func(j job) (int, bool)) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	type ranked struct {
		job
		rank int
	}
	kept := make([]ranked, 0, len(q.jobs))
	for _, j := range q.jobs {
		if r, ok := rank(j); ok {
			kept = append(kept, ranked{j, r})
		}
	}
	slices.SortStableFunc(kept, func(a, b ranked) int { return a.rank - b.rank })

	dropped := len(q.jobs) - len(kept)
	q.jobs = q.jobs[:0]
	for _, k := range kept {
		q.jobs = append(q.jobs, k.job)
	}
	return dropped
}

func (q *workQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func (q *workQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.jobs = nil
	q.cond.Broadcast()
}
