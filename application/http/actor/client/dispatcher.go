package client

import (
	"context"
	"http-engine/application/http"
	"http-engine/lib/ds/queue"
	"sync"

	"github.com/google/uuid"
)

type task struct {
	id       uuid.UUID
	args     *http.RequestArgs
	callback func(*http.Response)
}

type dispatcher struct {
	mu      sync.Mutex
	queue   *queue.NaiveQueue[task]
	stopped bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}

	once sync.Once
}

func newDispatcher() *dispatcher {
	return &dispatcher{
		queue: queue.NewNaive[task](8),
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Submit queues args to be sent by the worker of an async client.
// callback receives the response on the worker goroutine.
// It reports false, dropping the request, if the client is sync or closed,
// or if args is nil.
func (c *Client) Submit(args *http.RequestArgs, callback func(*http.Response)) bool {
	d := c.dispatcher
	if d == nil || args == nil {
		return false
	}

	t := task{id: uuid.New(), args: args, callback: callback}

	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return false
	}
	d.queue.Enqueue(t)
	queued := d.queue.Len()
	d.mu.Unlock()

	c.opts.Metrics.setQueued(queued)
	c.logger.Debug("request submitted", "task", t.id, "url", args.URL)

	select {
	case d.wake <- struct{}{}:
	default:
		// The worker has a wake up pending already.
	}

	return true
}

func (d *dispatcher) run(c *Client) {
	defer close(d.done)

	for {
		select {
		case <-d.stop:
			return
		case <-d.wake:
		}

		for {
			d.mu.Lock()
			if d.stopped {
				d.mu.Unlock()
				return
			}
			t, err := d.queue.Dequeue()
			queued := d.queue.Len()
			d.mu.Unlock()

			if err != nil {
				break
			}
			c.opts.Metrics.setQueued(queued)

			c.logger.Debug("running request", "task", t.id, "url", t.args.URL)
			res := c.Do(context.Background(), t.args)
			if t.callback != nil {
				t.callback(res)
			}
		}
	}
}

func (d *dispatcher) close(c *Client) {
	d.once.Do(func() {
		d.mu.Lock()
		d.stopped = true
		dropped := d.queue.Clear()
		d.mu.Unlock()

		if dropped > 0 {
			c.logger.Info("dropping queued requests", "count", dropped)
		}
		c.opts.Metrics.recordDropped(dropped)
		c.opts.Metrics.setQueued(0)

		close(d.stop)
	})
	<-d.done
}
