package server

import (
	"bytes"
	"context"
	"http-engine/application/http"
	"http-engine/application/http/transfer"
	"http-engine/application/util/rule"
	iolib "http-engine/lib/io"
	"http-engine/transport"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

var (
	ErrMalformedRequestLine = errors.New("request line is malformed")
	ErrLineTooLong          = errors.New("line length exceeds limit")
)

type conn struct {
	con transport.Conn
	r   *iolib.UntilReader

	handle HandleFunc
	clock  clock.Clock
	logger *slog.Logger

	opts Options
}

func (c *conn) start(ctx context.Context) {
	defer func() {
		c.logger.Debug("closing connection")
		if err := c.con.Close(); err != nil {
			c.logger.Error("error when closing connection", "error", err)
		}
	}()

	// Unblock whatever the connection waits for once the server closes.
	stop := context.AfterFunc(ctx, func() { c.con.Close() })
	defer stop()

	err := c.serve(ctx)

	switch {
	case err == nil:
	case errors.Is(err, transport.ErrConnClosed):
		c.logger.Debug("connection closed before a request arrived")
	default:
		c.logger.Error("error while serving", "error", err)
	}
}

func (c *conn) serve(ctx context.Context) error {
	if timeout := c.opts.ReadTimeout; timeout > 0 {
		c.con.SetReadDeadLine(c.clock.Now().Add(timeout))
	}

	request, err := c.readRequest()
	if err != nil {
		return errors.Wrap(err, "reading request")
	}
	c.con.SetReadDeadLine(time.Time{})

	hctx := &HandleContext{
		ctx:        ctx,
		remoteAddr: c.con.RemoteAddr(),
		w:          c.con,
	}

	return hctx.doHandle(c.handle, request)
}

func (c *conn) readLine() (string, error) {
	b, err := c.r.ReadUntilLimit([]byte{rule.LF}, c.opts.MaxLineLength)
	if err != nil {
		if errors.Is(err, iolib.ErrLimitExceeded) {
			return "", ErrLineTooLong
		}
		return "", err
	}

	b = bytes.TrimSuffix(b[:len(b)-1], []byte{rule.CR})
	return string(b), nil
}

func (c *conn) readRequest() (*Request, error) {
	var line string
	for {
		l, err := c.readLine()
		if err != nil {
			return nil, errors.Wrap(err, "reading request line")
		}

		// An empty line can be received before message.
		// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.2-6
		if len(l) > 0 {
			line = l
			break
		}
	}

	request, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	for {
		fieldLine, err := c.readLine()
		if err != nil {
			return nil, errors.Wrap(err, "reading field line")
		}

		if fieldLine == "" {
			break
		}

		key, value, err := http.ParseField(fieldLine)
		if err != nil {
			return nil, err
		}
		request.Headers.Set(key, value)
	}

	if v, ok := request.Headers.Get("Content-Length"); ok {
		n, err := transfer.ParseContentLength(v)
		if err != nil {
			return nil, errors.Wrap(err, "parsing content length")
		}

		request.Body = make([]byte, n)
		if _, err := io.ReadFull(c.r, request.Body); err != nil {
			return nil, errors.Wrap(err, "reading body")
		}
	}

	return request, nil
}

// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-3
func parseRequestLine(line string) (*Request, error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return nil, errors.Wrapf(ErrMalformedRequestLine, "%q", line)
	}

	method, target, version := parts[0], parts[1], parts[2]
	if !rule.IsValidToken(method) {
		return nil, errors.Wrap(ErrMalformedRequestLine, "method is not a valid token")
	}

	if len(target) == 0 {
		return nil, errors.Wrap(ErrMalformedRequestLine, "request target should not be empty")
	}

	if !strings.HasPrefix(version, "HTTP/") {
		return nil, errors.Wrapf(ErrMalformedRequestLine, "http version prefix not found: %s", version)
	}

	return &Request{Method: method, Target: target, Version: version}, nil
}
