package archive

import "unsafe"

// task is one pending decode of a record into obj.
type task struct {
	decoder FieldDecoder
	obj     unsafe.Pointer
	id      uint32
}

// workQueue is a FIFO over a reusable slice.
type workQueue struct {
	tasks []task
	head  int
}

func (q *workQueue) push(t task) {
	q.tasks = append(q.tasks, t)
}

func (q *workQueue) pop() (task, bool) {
	if q.head == len(q.tasks) {
		return task{}, false
	}
	t := q.tasks[q.head]
	q.tasks[q.head] = task{}
	q.head++
	if q.head == len(q.tasks) {
		q.tasks = q.tasks[:0]
		q.head = 0
	}
	return t, true
}

func (q *workQueue) len() int {
	return len(q.tasks) - q.head
}

func (q *workQueue) reset() {
	clear(q.tasks)
	q.tasks = q.tasks[:0]
	q.head = 0
}
