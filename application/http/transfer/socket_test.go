package transfer

import (
	"bytes"
	iolib "http-engine/lib/io"
	"http-engine/transport"
	"io"

	"github.com/pkg/errors"
)

// stubSocket serves a fixed byte stream.
type stubSocket struct {
	ur *iolib.UntilReader
}

var _ transport.Socket = (*stubSocket)(nil)

func newStubSocket(stream string) *stubSocket {
	return &stubSocket{ur: iolib.NewUntilReader(bytes.NewReader([]byte(stream)))}
}

func (s *stubSocket) Connect(string, uint16, transport.CancelFunc) error { return nil }
func (s *stubSocket) WriteBytes([]byte, transport.CancelFunc) error      { return nil }
func (s *stubSocket) Close() error                                       { return nil }

func (s *stubSocket) ReadLine(cancel transport.CancelFunc) (string, error) {
	if cancel != nil && cancel() {
		return "", transport.ErrCancelled
	}
	line, err := s.ur.ReadUntil([]byte{'\n'})
	if err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(line[:len(line)-1], []byte{'\r'})), nil
}

func (s *stubSocket) ReadBytes(n int64, progress transport.ProgressFunc, cancel transport.CancelFunc) ([]byte, error) {
	if cancel != nil && cancel() {
		return nil, transport.ErrCancelled
	}
	b := make([]byte, n)
	nn, err := io.ReadFull(s.ur, b)
	if nn > 0 && progress != nil && !progress(int64(nn), n) {
		return b[:nn], transport.ErrAborted
	}
	if err != nil {
		return b[:nn], errors.Wrap(transport.ErrConnClosed, err.Error())
	}
	return b, nil
}
