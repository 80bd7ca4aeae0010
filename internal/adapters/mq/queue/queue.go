// Package queue defines the contract for dispatching member documents to
// the fold workers.
//
// A run enqueues every member document once; workers drain the queue in
// parallel. The in-memory bounded implementation is sufficient for a batch
// of tens of thousands of profiles.
package queue

import (
	"context"
	"sync"

	"github.com/cavops/muster/internal/domain/model"
	"github.com/cavops/muster/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 50000
)

// Document is the payload type flowing through the queue.
type Document = model.Profile

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a document to the queue.
	// Returns false if the queue is full, closed or the context is done.
	Enqueue(ctx context.Context, d Document) bool

	// Dequeue returns a channel that receives documents as they become
	// available. The channel is closed when the queue is closed and
	// drained.
	Dequeue(ctx context.Context) <-chan Document

	// Len returns the current number of queued documents.
	Len(ctx context.Context) int

	// Close stops new enqueues; queued documents can still be drained.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	docs     chan Document
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.docs = make(chan Document, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)
	return q
}

// Enqueue adds a document to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, d Document) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.docs <- d:
		metrics.RecordQueueEnqueue()
		q.observe()
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		// queue is full
		metrics.RecordQueueEnqueueError()
		return false
	}
}

// Dequeue returns a channel that receives documents as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Document {
	out := make(chan Document)
	go func() {
		defer close(out)
		for {
			select {
			case doc, ok := <-q.docs:
				if !ok {
					return
				}
				select {
				case out <- doc:
					metrics.RecordQueueDequeue()
					q.observe()
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued documents.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.docs)
}

// Close stops new enqueues and lets consumers drain the remainder.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	close(q.docs)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// observe refreshes the queue gauges.
func (q *InMemoryQueue) observe() {
	size := len(q.docs)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
