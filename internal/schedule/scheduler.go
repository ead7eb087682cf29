package schedule

import (
	"container/heap"
	"time"
)

// Token identifies a scheduled callback. The zero Token is never issued.
type Token uint64

type task struct {
	token Token
	due   time.Time
	seq   uint64
	fn    func()
	index int
}

// Scheduler runs delayed callbacks on the simulation goroutine.
//
// Nothing blocks: After only records the callback and RunDue executes
// every task whose deadline has passed, in deadline order. Not safe for
// concurrent use.
type Scheduler struct {
	clock  Clock
	queue  taskQueue
	tasks  map[Token]*task
	nextID Token
	seq    uint64
}

// New creates a scheduler reading time from clock.
func New(clock Clock) *Scheduler {
	return &Scheduler{
		clock: clock,
		tasks: make(map[Token]*task),
	}
}

// Now returns the scheduler clock time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// After schedules fn to run once d has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) Token {
	s.nextID++
	s.seq++
	t := &task{
		token: s.nextID,
		due:   s.clock.Now().Add(d),
		seq:   s.seq,
		fn:    fn,
	}
	s.tasks[t.token] = t
	heap.Push(&s.queue, t)
	return t.token
}

// Cancel removes a pending callback. Returns false if it already ran or
// was never scheduled.
func (s *Scheduler) Cancel(tok Token) bool {
	t, ok := s.tasks[tok]
	if !ok {
		return false
	}
	delete(s.tasks, tok)
	heap.Remove(&s.queue, t.index)
	return true
}

// Pending returns the number of scheduled callbacks.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// RunDue executes every callback due at the current clock time and
// returns how many ran. Callbacks scheduled from inside a callback run in
// the same pass only if they are already due.
func (s *Scheduler) RunDue() int {
	now := s.clock.Now()
	ran := 0
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.due.After(now) {
			break
		}
		heap.Pop(&s.queue)
		delete(s.tasks, next.token)
		next.fn()
		ran++
	}
	return ran
}

// taskQueue is a min-heap ordered by deadline, then by scheduling order.
type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
