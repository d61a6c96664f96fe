package queue

import (
	"errors"
	"http-engine/lib/ds/internal"
)

var ErrQueueEmpty = errors.New("queue is empty")

type Queue[T any] interface {
	Enqueue(v T)
	Dequeue() (T, error)
	Peek() (T, error)
	Len() uint
	Clear() uint
}

// NaiveQueue is an unbounded FIFO queue backed by a slice.
// It is not safe for concurrent use.
type NaiveQueue[T any] struct {
	queue []T
}

func NewNaive[T any](initialCap uint) *NaiveQueue[T] {
	return &NaiveQueue[T]{queue: make([]T, 0, initialCap)}
}

var _ Queue[int] = (*NaiveQueue[int])(nil)

func (q *NaiveQueue[T]) Enqueue(v T) {
	q.queue = append(q.queue, v)
}

func (q *NaiveQueue[T]) Dequeue() (T, error) {
	if q.Len() == 0 {
		return internal.Zero[T](), ErrQueueEmpty
	}

	v := q.queue[0]
	// Release the slot so that the backing array doesn't keep v alive.
	q.queue[0] = internal.Zero[T]()
	q.queue = q.queue[1:]

	return v, nil
}

func (q *NaiveQueue[T]) Peek() (T, error) {
	if q.Len() == 0 {
		return internal.Zero[T](), ErrQueueEmpty
	}
	return q.queue[0], nil
}

func (q *NaiveQueue[T]) Len() uint {
	return uint(len(q.queue))
}

// Clear drops every element and reports how many were dropped.
func (q *NaiveQueue[T]) Clear() uint {
	n := q.Len()
	q.queue = nil
	return n
}
