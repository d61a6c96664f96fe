// Package content decodes response content codings.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-8.4
package content

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

const (
	CodingGzip = "gzip"

	inflateChunkSize = 16 * 1024
)

// Inflate decompresses a gzip stream holding a single member.
// Nothing is returned on failure, not even the part decoded before it.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc1952
func Inflate(in []byte) ([]byte, error) {
	if len(in) == 0 {
		return []byte{}, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, errors.Wrap(err, "reading gzip header")
	}
	defer zr.Close()
	zr.Multistream(false)

	out := bytes.NewBuffer(make([]byte, 0, len(in)))
	chunk := make([]byte, inflateChunkSize)
	for {
		n, err := zr.Read(chunk)
		out.Write(chunk[:n])

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "inflating")
		}
	}

	return out.Bytes(), nil
}

// Deflate compresses in into a single gzip member.
func Deflate(in []byte) ([]byte, error) {
	out := bytes.NewBuffer(nil)
	zw := gzip.NewWriter(out)

	if _, err := zw.Write(in); err != nil {
		return nil, errors.Wrap(err, "deflating")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "closing gzip stream")
	}

	return out.Bytes(), nil
}
