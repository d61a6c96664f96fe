package server

import (
	"bytes"
	"context"
	"http-engine/application/http"
	"http-engine/application/http/status"
	"http-engine/application/http/transfer"
	"http-engine/application/util/rule"
	iolib "http-engine/lib/io"
	"http-engine/transport"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

type Request struct {
	Method  string
	Target  string
	Version string
	Headers http.Headers
	Body    []byte
}

// HandleFunc writes the response to request through c.
// The connection is closed once it returns.
type HandleFunc func(c *HandleContext, request *Request)

type HandleContext struct {
	ctx        context.Context
	remoteAddr transport.Addr

	w io.Writer
}

func (c *HandleContext) doHandle(handle HandleFunc, request *Request) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("handler panicked: %v", e)
		}
	}()

	handle(c, request)
	return nil
}

// Context is done once the server closes.
func (c *HandleContext) Context() context.Context   { return c.ctx }
func (c *HandleContext) RemoteAddr() transport.Addr { return c.remoteAddr }

// Write sends raw bytes to the client.
func (c *HandleContext) Write(b []byte) (int, error) {
	return c.w.Write(b)
}

// Respond writes a complete response. Content-Length is set to the length
// of body unless headers already frame the body or status forbids one.
func (c *HandleContext) Respond(code int, headers http.Headers, body []byte) error {
	headers = headers.Clone()
	if !headers.Has("Content-Length") && !headers.Has("Transfer-Encoding") && code != status.NoContent && code != status.NotModified {
		headers.Set("Content-Length", strconv.Itoa(len(body)))
	}

	buf := bytes.NewBuffer(nil)
	writeHead(buf, code, headers)
	buf.Write(body)

	_, err := iolib.WriteFull(c.w, buf.Bytes())
	return errors.Wrap(err, "writing response")
}

// RespondChunked writes a response whose body is sent with the chunked
// transfer coding, one chunk per element of chunks.
func (c *HandleContext) RespondChunked(code int, headers http.Headers, chunks ...[]byte) error {
	headers = headers.Clone()
	headers.Set("Transfer-Encoding", transfer.CodingChunked)

	buf := bytes.NewBuffer(nil)
	writeHead(buf, code, headers)

	cw := transfer.NewChunkedWriter(buf)
	for _, chunk := range chunks {
		if _, err := cw.Write(chunk); err != nil {
			return errors.Wrap(err, "encoding chunk")
		}
	}
	if err := cw.Close(); err != nil {
		return errors.Wrap(err, "encoding last chunk")
	}

	_, err := iolib.WriteFull(c.w, buf.Bytes())
	return errors.Wrap(err, "writing response")
}

func writeHead(buf *bytes.Buffer, code int, headers http.Headers) {
	buf.WriteString("HTTP/1.1 ")
	buf.WriteString(strconv.Itoa(code))
	buf.WriteByte(rule.SP)
	buf.WriteString(status.ReasonPhrase(code))
	buf.Write(rule.CRLF)

	for _, field := range headers.Fields() {
		buf.WriteString(field[0])
		buf.WriteString(": ")
		buf.WriteString(field[1])
		buf.Write(rule.CRLF)
	}
	buf.Write(rule.CRLF)
}
