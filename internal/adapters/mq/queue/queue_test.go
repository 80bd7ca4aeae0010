package queue_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cavops/muster/internal/adapters/mq/queue"
	"github.com/cavops/muster/internal/domain/model"
)

func doc(id string) queue.Document {
	return model.Profile{User: model.User{ID: id}}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory queue", t, func() {
		ctx := context.Background()

		Convey("When enqueueing documents", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))

			Convey("Then documents are accepted until capacity", func() {
				So(q.Enqueue(ctx, doc("m1")), ShouldBeTrue)
				So(q.Enqueue(ctx, doc("m2")), ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And a full queue rejects instead of blocking", func() {
				small := queue.NewInMemoryQueue(queue.WithCapacity(1))
				So(small.Enqueue(ctx, doc("m1")), ShouldBeTrue)
				So(small.Enqueue(ctx, doc("m2")), ShouldBeFalse)
			})
		})

		Convey("When dequeueing documents", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			q.Enqueue(ctx, doc("m1"))
			q.Enqueue(ctx, doc("m2"))

			Convey("Then documents come back in order", func() {
				out := q.Dequeue(ctx)
				first := <-out
				second := <-out
				So(first.MemberID(), ShouldEqual, "m1")
				So(second.MemberID(), ShouldEqual, "m2")
			})

			Convey("And the channel closes once the queue is closed and drained", func() {
				So(q.Close(), ShouldBeNil)

				var got []string
				for d := range q.Dequeue(ctx) {
					got = append(got, d.MemberID())
				}
				So(got, ShouldResemble, []string{"m1", "m2"})
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues are rejected", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, doc("m1")), ShouldBeFalse)
			})

			Convey("And closing twice reports the closed state", func() {
				So(errors.Is(q.Close(), queue.ErrClosed), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled during dequeue", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			cancelCtx, cancel := context.WithCancel(ctx)
			out := q.Dequeue(cancelCtx)
			cancel()
			q.Enqueue(ctx, doc("m1"))

			Convey("Then the consumer channel closes", func() {
				select {
				case _, ok := <-out:
					// Either the buffered document or a close is fine; the
					// channel must not stay open forever.
					if ok {
						_, ok = <-out
						So(ok, ShouldBeFalse)
					}
				case <-time.After(time.Second):
					So("dequeue channel never closed", ShouldBeEmpty)
				}
			})
		})

		Convey("When many documents flow through", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(1000))
			const n = 500
			for i := 0; i < n; i++ {
				So(q.Enqueue(ctx, doc(fmt.Sprintf("m%d", i))), ShouldBeTrue)
			}
			So(q.Close(), ShouldBeNil)

			count := 0
			for range q.Dequeue(ctx) {
				count++
			}
			So(count, ShouldEqual, n)
		})
	})
}
