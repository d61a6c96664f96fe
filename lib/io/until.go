package iolib

import (
	"bytes"
	"errors"
	"io"
)

var (
	ErrZeroLenDelim  = errors.New("delim has zero length")
	ErrLimitExceeded = errors.New("delim not found within limit")
)

// UntilReader reads a stream either delimiter by delimiter or as plain bytes.
// Bytes read ahead while looking for a delimiter are served first by Read.
type UntilReader struct {
	r   io.Reader
	tmp []byte

	buf []byte // read from r but not consumed yet.
	err error  // error returned by r, reported once buf is drained.
}

var _ io.Reader = (*UntilReader)(nil)

func NewUntilReader(r io.Reader) *UntilReader {
	return &UntilReader{r: r, tmp: make([]byte, 1024)}
}

func (ur *UntilReader) Read(p []byte) (n int, err error) {
	if len(ur.buf) > 0 {
		n = copy(p, ur.buf)
		ur.buf = ur.buf[n:]
		return n, nil
	}

	if ur.err != nil {
		err, ur.err = ur.err, nil
		return 0, err
	}

	return ur.r.Read(p)
}

// ReadUntil reads until delim. The output includes delim.
// If the underlying reader fails before delim shows up,
// every byte read so far is returned along with the error.
func (ur *UntilReader) ReadUntil(delim []byte) ([]byte, error) {
	return ur.ReadUntilLimit(delim, 0)
}

// ReadUntilLimit is [UntilReader.ReadUntil] which gives up with [ErrLimitExceeded]
// when delim is not found within limit bytes. Zero limit means no limit.
func (ur *UntilReader) ReadUntilLimit(delim []byte, limit uint) ([]byte, error) {
	if len(delim) == 0 {
		return nil, ErrZeroLenDelim
	}

	scanned := 0
	for {
		// Only the bytes that arrived after the last scan (plus an overlap for
		// a delim split across reads) need to be searched.
		from := max(0, scanned-len(delim)+1)
		if idx := bytes.Index(ur.buf[from:], delim); idx >= 0 {
			end := from + idx + len(delim)
			if limit > 0 && uint(end) > limit {
				return nil, ErrLimitExceeded
			}

			out := bytes.Clone(ur.buf[:end])
			ur.buf = ur.buf[end:]
			return out, nil
		}
		scanned = len(ur.buf)

		if limit > 0 && uint(scanned) >= limit {
			return nil, ErrLimitExceeded
		}

		if ur.err != nil {
			out, err := ur.buf, ur.err
			ur.buf, ur.err = nil, nil
			return out, err
		}

		n, err := ur.r.Read(ur.tmp)
		ur.buf = append(ur.buf, ur.tmp[:n]...)
		ur.err = err
	}
}
