// Package worker runs the parallel map phase of a run: each worker folds
// one member document at a time into membership intervals.
//
// Workers share nothing but the inbound queue; every result is delivered on
// a single results channel so the merge stays single-writer and needs no
// locking.
package worker

import (
	"context"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/cavops/muster/internal/adapters/mq/queue"
	"github.com/cavops/muster/internal/domain/extract"
	"github.com/cavops/muster/internal/domain/model"
	"github.com/cavops/muster/pkg/logger"
	"github.com/cavops/muster/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount = 8
)

// Document is what workers read off the queue.
type Document = queue.Document

// Result is one member's fold output, ready for the merge phase.
type Result struct {
	MemberID    string
	Memberships []model.Membership
	Movements   []model.Movement
	Skips       []extract.Skip
}

// Folder computes one member's result. Implementations must be safe for
// concurrent use: every worker shares one Folder.
type Folder interface {
	Fold(ctx context.Context, doc Document) (Result, error)
}

// Queue defines how workers receive documents.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Document
}

// Worker drains documents and emits fold results.
type Worker struct {
	queue   Queue
	folder  Folder
	results chan<- Result
	name    string

	done chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(q Queue, f Folder, results chan<- Result, opts ...Option) *Worker {
	w := &Worker{
		queue:   q,
		folder:  f,
		results: results,
		name:    "worker",
		done:    make(chan struct{}),
		logger:  logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run drains the queue until it is closed or ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	for doc := range w.queue.Dequeue(ctx) {
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.process(ctx, doc)
	}
}

// process folds one document and hands the result to the merge phase.
func (w *Worker) process(ctx context.Context, doc Document) {
	start := time.Now()
	res, err := w.folder.Fold(ctx, doc)
	metrics.RecordWorkerFoldLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "fold failed for member",
			logger.String("memberID", doc.MemberID()),
			logger.Error(err),
		)
		return
	}

	metrics.RecordDocumentProcessed()
	select {
	case w.results <- res:
	case <-ctx.Done():
	}
}

// Pool manages the fold workers of one run.
type Pool struct {
	workers []*Worker
	results chan Result
	wg      sync.WaitGroup

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers sharing one queue, one
// folder and one results channel.
func NewPool(workerCount int, q Queue, f Folder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
		if workerCount < 1 {
			workerCount = defaultWorkerCount
		}
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		results: make(chan Result, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(q, f, p.results, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers. The results channel closes once every worker
// has drained the queue, which is the pool's end-of-run signal.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
	go func() {
		p.wg.Wait()
		close(p.results)
		metrics.UpdateWorkerCount(0)
	}()
}

// Results returns the merge-phase channel. It is closed when the run's map
// phase is complete.
func (p *Pool) Results() <-chan Result {
	return p.results
}
