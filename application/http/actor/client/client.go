// Package client sends HTTP/1.1 requests over sockets from a [transport.SocketFactory],
// one connection per request, following redirects up to a bound.
//
// A Client carries out one request at a time. Calls made concurrently wait for each other.
// With [Options.Async], requests can also be queued with [Client.Submit] and
// run in order on a worker goroutine.
package client

import (
	"context"
	"http-engine/application/http"
	"http-engine/application/http/form"
	"http-engine/transport"
	"log/slog"
	"sync"

	"github.com/benbjohnson/clock"
)

type Client struct {
	factory transport.SocketFactory
	opts    Options

	logger *slog.Logger
	clock  clock.Clock

	// mu serializes requests, redirect chains included.
	mu sync.Mutex

	// nil unless Options.Async.
	dispatcher *dispatcher
}

func New(
	factory transport.SocketFactory,
	logger *slog.Logger,
	clock clock.Clock,
	opts Options,
) *Client {
	c := &Client{
		factory: factory,
		opts:    opts.withDefaults(),
		logger:  logger,
		clock:   clock,
	}

	if c.opts.Async {
		c.dispatcher = newDispatcher()
		go c.dispatcher.run(c)
	}

	return c
}

// Request sends verb to url and returns the outcome. It never fails:
// errors are reported by the ErrorCode and ErrorMessage of the response.
// args supplies everything but the URL, verb and body. Nil args means the defaults.
func (c *Client) Request(ctx context.Context, url string, verb http.Verb, body []byte, args *http.RequestArgs) *http.Response {
	if args == nil {
		args = http.NewRequestArgs(url, verb)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	start := c.clock.Now()
	res := c.follow(ctx, url, verb, body, args)

	c.opts.Metrics.recordRequest(
		verb.String(), res.ErrorCode.String(),
		res.UploadSize, res.DownloadSize,
		c.clock.Since(start).Seconds(),
	)

	if !res.OK() {
		c.logger.Warn(
			"request failed",
			"url", url,
			"verb", verb,
			"code", res.ErrorCode.String(),
			"error", res.ErrorMessage,
		)
	}

	return res
}

// Do sends the request args describes.
func (c *Client) Do(ctx context.Context, args *http.RequestArgs) *http.Response {
	return c.Request(ctx, args.URL, args.Verb, args.Body, args)
}

func (c *Client) Get(ctx context.Context, url string, args *http.RequestArgs) *http.Response {
	return c.Request(ctx, url, http.GET, nil, args)
}

func (c *Client) Head(ctx context.Context, url string, args *http.RequestArgs) *http.Response {
	return c.Request(ctx, url, http.HEAD, nil, args)
}

func (c *Client) Delete(ctx context.Context, url string, args *http.RequestArgs) *http.Response {
	return c.Request(ctx, url, http.DELETE, nil, args)
}

func (c *Client) Post(ctx context.Context, url string, body []byte, args *http.RequestArgs) *http.Response {
	return c.Request(ctx, url, http.POST, body, args)
}

func (c *Client) Put(ctx context.Context, url string, body []byte, args *http.RequestArgs) *http.Response {
	return c.Request(ctx, url, http.PUT, body, args)
}

// PostForm posts params form-urlencoded.
func (c *Client) PostForm(ctx context.Context, url string, params form.Parameters, args *http.RequestArgs) *http.Response {
	return c.Post(ctx, url, []byte(form.Serialize(params)), args)
}

// PutForm puts params form-urlencoded.
func (c *Client) PutForm(ctx context.Context, url string, params form.Parameters, args *http.RequestArgs) *http.Response {
	return c.Put(ctx, url, []byte(form.Serialize(params)), args)
}

// Close stops the worker of an async client. It waits for the running request
// and drops the queued ones without calling their callbacks.
// It does nothing for a sync client. Calling it from a callback deadlocks.
func (c *Client) Close() error {
	if c.dispatcher != nil {
		c.dispatcher.close(c)
	}
	return nil
}
