// Package transfer reads HTTP/1.1 message bodies off a [transport.Socket],
// framed either by Content-Length or by the chunked transfer coding.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-6
package transfer

import (
	"http-engine/application/util/rule"
	"http-engine/transport"
	"strconv"

	"github.com/pkg/errors"
)

// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-8.6
func ParseContentLength(v string) (int64, error) {
	v = rule.TrimOWS(v)
	if v == "" {
		return 0, errors.New("content length is empty")
	}

	for _, c := range v {
		if !rule.IsDigit(c) {
			return 0, errors.Errorf("content length is not a number: %q", v)
		}
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing content length %q", v)
	}

	return n, nil
}

// ReadContentLength reads a body of exactly n bytes.
// On failure the bytes read so far are returned along with the error.
func ReadContentLength(
	s transport.Socket,
	n int64,
	progress transport.ProgressFunc,
	cancel transport.CancelFunc,
) ([]byte, error) {
	if n < 0 {
		return nil, errors.Errorf("negative content length: %d", n)
	}

	b, err := s.ReadBytes(n, progress, cancel)
	if err != nil {
		return b, errors.Wrap(err, "reading content")
	}

	return b, nil
}
