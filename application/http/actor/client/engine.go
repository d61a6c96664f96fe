package client

import (
	"context"
	"http-engine/application/http"
	"http-engine/application/http/content"
	httpstatus "http-engine/application/http/status"
	"http-engine/application/http/transfer"
	"http-engine/application/util/uri"
	"http-engine/transport"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// follow sends the request to url and then to every redirect target,
// until a response which is not followed.
func (c *Client) follow(ctx context.Context, url string, verb http.Verb, body []byte, args *http.RequestArgs) *http.Response {
	for depth := 0; ; depth++ {
		res, next := c.roundTrip(ctx, url, verb, body, args, depth)
		if next == "" {
			return res
		}

		c.opts.Metrics.recordRedirect()
		args.Log("Redirecting to " + next)
		url = next
	}
}

// roundTrip sends one request over a fresh socket.
// next is not empty when the response redirects to a URL to follow.
func (c *Client) roundTrip(
	ctx context.Context,
	url string,
	verb http.Verb,
	body []byte,
	args *http.RequestArgs,
	depth int,
) (res *http.Response, next string) {
	res = &http.Response{}

	fail := func(code http.ErrorCode, err error) (*http.Response, string) {
		res.ErrorCode = code
		res.ErrorMessage = err.Error()
		return res, ""
	}

	endpoint, err := uri.ParseEndpoint(url)
	if err != nil {
		return fail(http.UrlMalformed, errors.Wrapf(err, "cannot parse url %q", url))
	}

	c.logger.Debug(
		"sending request",
		"url", url,
		"verb", verb,
		"depth", depth,
	)

	socket, err := c.factory.NewSocket(endpoint.TLS)
	if err != nil {
		return fail(http.CannotCreateSocket, errors.Wrap(err, "cannot create socket"))
	}
	defer socket.Close()

	request := http.BuildRequest(verb, endpoint.Target, endpoint.HostHeader, body, args, c.opts.UserAgent)
	args.Log(string(request))

	connectCancel := c.cancelAfter(ctx, args.ConnectTimeout)
	if err := socket.Connect(endpoint.Host, endpoint.Port, connectCancel); err != nil {
		return fail(http.CannotConnect, errors.Wrapf(err, "cannot connect to %s", transport.Addr{Host: endpoint.Host, Port: endpoint.Port}))
	}

	cancel := c.cancelAfter(ctx, args.TransferTimeout)
	if err := socket.WriteBytes(request, cancel); err != nil {
		return fail(http.SendError, errors.Wrap(err, "cannot send request"))
	}
	res.UploadSize = int64(len(request))

	statusLine, err := socket.ReadLine(cancel)
	if err != nil {
		return fail(http.CannotReadStatusLine, errors.Wrap(err, "cannot read status line"))
	}
	args.Log(statusLine)

	status, err := http.ParseStatusLine(statusLine)
	if err != nil {
		return fail(http.MissingStatus, err)
	}
	res.StatusCode = status

	if err := readHeaders(socket, cancel, &res.Headers); err != nil {
		return fail(http.HeaderParsingError, err)
	}

	if args.FollowRedirects && httpstatus.IsRedirect(status) {
		location, ok := res.Headers.Get("Location")
		if !ok {
			return fail(http.MissingLocation, errors.Errorf("status %d without a location", status))
		}

		if depth >= args.MaxRedirects {
			return fail(http.TooManyRedirects, errors.Errorf("stopped after %d redirects", depth))
		}

		return res, resolveLocation(url, location)
	}

	if verb == http.HEAD {
		return res, ""
	}

	progress := transport.ProgressFunc(args.OnProgress)
	var payload []byte

	if v, ok := res.Headers.Get("Content-Length"); ok {
		n, err := transfer.ParseContentLength(v)
		if err != nil {
			return fail(http.CannotReadBody, err)
		}

		payload, err = transfer.ReadContentLength(socket, n, progress, cancel)
		res.DownloadSize = int64(len(payload))
		if err != nil {
			return fail(http.ChunkReadError, err)
		}
	} else if isChunked(res.Headers) {
		onChunk := func(size int64) {
			args.Log("Chunk size: " + strconv.FormatInt(size, 10))
		}

		payload, err = transfer.ReadChunked(socket, progress, cancel, onChunk)
		res.DownloadSize = int64(len(payload))
		if err != nil {
			return fail(http.ChunkReadError, err)
		}
	} else if status == httpstatus.NoContent {
		payload = []byte{}
	} else {
		return fail(http.CannotReadBody, errors.New("response has no content length nor chunked body"))
	}

	if isGzip(res.Headers) {
		inflated, err := content.Inflate(payload)
		if err != nil {
			return fail(http.Gzip, errors.Wrap(err, "cannot decompress payload"))
		}
		payload = inflated
	}

	res.Payload = payload
	return res, ""
}

func readHeaders(socket transport.Socket, cancel transport.CancelFunc, headers *http.Headers) error {
	for {
		line, err := socket.ReadLine(cancel)
		if err != nil {
			return errors.Wrap(err, "reading field line")
		}

		if line == "" {
			return nil
		}

		key, value, err := http.ParseField(line)
		if err != nil {
			return err
		}
		headers.Set(key, value)
	}
}

// cancelAfter returns a predicate which fires once timeout has passed
// or ctx is done. Non-positive timeout never fires by itself.
func (c *Client) cancelAfter(ctx context.Context, timeout time.Duration) transport.CancelFunc {
	var deadline time.Time
	if timeout > 0 {
		deadline = c.clock.Now().Add(timeout)
	}

	return func() bool {
		if ctx.Err() != nil {
			return true
		}
		return !deadline.IsZero() && !c.clock.Now().Before(deadline)
	}
}

// Codings are matched exactly. Field values arrive trimmed by ParseField.
func isChunked(headers http.Headers) bool {
	v, ok := headers.Get("Transfer-Encoding")
	return ok && v == transfer.CodingChunked
}

func isGzip(headers http.Headers) bool {
	v, ok := headers.Get("Content-Encoding")
	return ok && v == content.CodingGzip
}

// resolveLocation resolves a relative location against the URL which returned it.
// A location which fails to resolve is followed as is.
func resolveLocation(base, location string) string {
	resolved, err := uri.ResolveString(base, location)
	if err != nil {
		return location
	}
	return resolved
}
