package worker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cavops/muster/internal/adapters/mq/queue"
	"github.com/cavops/muster/internal/adapters/mq/worker"
	"github.com/cavops/muster/internal/domain/model"
	"github.com/cavops/muster/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.InitWithWriter(io.Discard)
	m.Run()
}

// countingFolder returns one membership per document and counts calls.
type countingFolder struct {
	calls atomic.Int64
	fail  string // member ID whose fold fails
}

func (f *countingFolder) Fold(_ context.Context, doc worker.Document) (worker.Result, error) {
	f.calls.Add(1)
	id := doc.MemberID()
	if id == f.fail {
		return worker.Result{}, errors.New("boom")
	}
	return worker.Result{
		MemberID: id,
		Memberships: []model.Membership{
			{MemberID: id, StartDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}, nil
}

func doc(id string) queue.Document {
	return model.Profile{User: model.User{ID: id}}
}

func TestPool(t *testing.T) {
	Convey("Given a worker pool over a queue", t, func() {
		ctx := context.Background()

		Convey("When folding a batch of documents", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(100))
			folder := &countingFolder{}
			pool := worker.NewPool(4, q, folder)
			pool.Start(ctx)

			const n = 50
			for i := 0; i < n; i++ {
				So(q.Enqueue(ctx, doc(fmt.Sprintf("m%d", i))), ShouldBeTrue)
			}
			So(q.Close(), ShouldBeNil)

			seen := make(map[string]bool)
			for res := range pool.Results() {
				seen[res.MemberID] = true
				So(res.Memberships, ShouldHaveLength, 1)
			}

			Convey("Then every document is folded exactly once", func() {
				So(folder.calls.Load(), ShouldEqual, n)
				So(len(seen), ShouldEqual, n)
			})

			Convey("And the results channel is closed afterwards", func() {
				_, ok := <-pool.Results()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a fold fails for one member", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			folder := &countingFolder{fail: "bad"}
			pool := worker.NewPool(2, q, folder)
			pool.Start(ctx)

			q.Enqueue(ctx, doc("good"))
			q.Enqueue(ctx, doc("bad"))
			q.Enqueue(ctx, doc("fine"))
			So(q.Close(), ShouldBeNil)

			var got []string
			for res := range pool.Results() {
				got = append(got, res.MemberID)
			}

			Convey("Then the failure is dropped and the rest survive", func() {
				So(folder.calls.Load(), ShouldEqual, 3)
				So(got, ShouldHaveLength, 2)
				So(got, ShouldNotContain, "bad")
			})
		})

		Convey("When the pool is created with an invalid worker count", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			pool := worker.NewPool(0, q, &countingFolder{})

			Convey("Then it falls back to a sane default and still drains", func() {
				pool.Start(ctx)
				q.Enqueue(ctx, doc("m1"))
				So(q.Close(), ShouldBeNil)

				count := 0
				for range pool.Results() {
					count++
				}
				So(count, ShouldEqual, 1)
			})
		})
	})
}

func TestWorker(t *testing.T) {
	Convey("Given a single worker", t, func() {
		ctx := context.Background()

		Convey("When it drains a closed queue", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			results := make(chan worker.Result, 10)
			w := worker.NewWorker(q, &countingFolder{}, results, worker.WithName("worker-test"))

			q.Enqueue(ctx, doc("m1"))
			So(q.Close(), ShouldBeNil)

			done := make(chan struct{})
			go func() {
				w.Run(ctx)
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("worker did not finish draining")
			}

			Convey("Then the result is delivered and the worker returns", func() {
				So(results, ShouldHaveLength, 1)
				res := <-results
				So(res.MemberID, ShouldEqual, "m1")
			})
		})
	})
}
