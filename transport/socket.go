package transport

import (
	"bytes"
	"context"
	iolib "http-engine/lib/io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

var (
	ErrCancelled     = errors.New("operation cancelled")
	ErrAborted       = errors.New("aborted by progress callback")
	ErrNotConnected  = errors.New("socket is not connected")
	ErrLineTooLong   = errors.New("line length exceeds limit")
	ErrTLSNotEnabled = errors.New("no dialer for TLS")
)

// CancelFunc is polled while a socket operation blocks.
// Once it returns true the operation gives up with [ErrCancelled].
type CancelFunc func() bool

// ProgressFunc receives the number of bytes read so far and the number expected.
// Returning false aborts the read with [ErrAborted].
type ProgressFunc func(current, total int64) bool

// Socket is a blocking stream socket whose operations can be cancelled.
type Socket interface {
	Connect(host string, port uint16, cancel CancelFunc) error
	WriteBytes(b []byte, cancel CancelFunc) error
	// ReadLine reads a line terminated by CRLF or LF. The terminator is stripped.
	ReadLine(cancel CancelFunc) (string, error)
	ReadBytes(n int64, progress ProgressFunc, cancel CancelFunc) ([]byte, error)
	Close() error
}

type SocketFactory interface {
	NewSocket(tls bool) (Socket, error)
}

type SocketOptions struct {
	// PollInterval bounds how long a blocked operation goes without
	// checking its [CancelFunc].
	PollInterval time.Duration
	// MaxLineLength limits the length of a line read by ReadLine,
	// terminator included. Zero means no limit.
	MaxLineLength uint
	// ReadChunkSize is the largest single read issued by ReadBytes.
	ReadChunkSize int
}

var DefaultSocketOptions = SocketOptions{
	PollInterval:  100 * time.Millisecond,
	MaxLineLength: 64 * 1024,
	ReadChunkSize: 16 * 1024,
}

func (o SocketOptions) withDefaults() SocketOptions {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultSocketOptions.PollInterval
	}
	if o.ReadChunkSize <= 0 {
		o.ReadChunkSize = DefaultSocketOptions.ReadChunkSize
	}
	return o
}

type factory struct {
	plain, secure ConnDialer
	clock         clock.Clock
	opts          SocketOptions
}

var _ SocketFactory = (*factory)(nil)

// NewFactory returns a [SocketFactory] creating sockets that dial with plain,
// or with secure for TLS. Without secure, TLS sockets cannot be created.
func NewFactory(plain, secure ConnDialer, clock clock.Clock, opts SocketOptions) SocketFactory {
	return &factory{
		plain:  plain,
		secure: secure,
		clock:  clock,
		opts:   opts.withDefaults(),
	}
}

func (f *factory) NewSocket(tls bool) (Socket, error) {
	dialer := f.plain
	if tls {
		dialer = f.secure
		if dialer == nil {
			return nil, ErrTLSNotEnabled
		}
	}

	if dialer == nil {
		return nil, errors.New("no dialer for plain connections")
	}

	return newStreamSocket(dialer, f.clock, f.opts), nil
}

// streamSocket turns the read deadlines of a [Conn] into polling points:
// every blocking read is armed with a deadline of one poll interval,
// and is retried after consulting the cancel function. Dials and writes
// are watched by a poller instead.
type streamSocket struct {
	dialer ConnDialer
	clock  clock.Clock
	opts   SocketOptions

	conn Conn
	ur   *iolib.UntilReader

	// cancel of the read in progress.
	cancel CancelFunc
}

var _ Socket = (*streamSocket)(nil)

func newStreamSocket(dialer ConnDialer, clock clock.Clock, opts SocketOptions) *streamSocket {
	return &streamSocket{
		dialer: dialer,
		clock:  clock,
		opts:   opts,
	}
}

func cancelled(cancel CancelFunc) bool {
	return cancel != nil && cancel()
}

func (s *streamSocket) Connect(host string, port uint16, cancel CancelFunc) error {
	if s.conn != nil {
		return errors.New("socket is already connected")
	}

	if cancelled(cancel) {
		return ErrCancelled
	}

	ctx, abort := context.WithCancel(context.Background())
	defer abort()

	stop := s.watch(cancel, abort)
	conn, err := s.dialer.Dial(ctx, Addr{Host: host, Port: port})
	fired := stop()

	if err != nil {
		if fired || ctx.Err() != nil {
			return errors.Wrap(ErrCancelled, err.Error())
		}
		return errors.Wrap(err, "dialing")
	}

	s.conn = conn
	s.ur = iolib.NewUntilReader(&pollReader{s})

	return nil
}

// WriteBytes issues a single write without a deadline. A TLS connection
// fails every write after its first write timeout, so the deadline is only
// armed, in the past, once cancel fires.
func (s *streamSocket) WriteBytes(b []byte, cancel CancelFunc) error {
	if s.conn == nil {
		return ErrNotConnected
	}

	if cancelled(cancel) {
		return ErrCancelled
	}

	stop := s.watch(cancel, func() { s.conn.SetWriteDeadLine(time.Unix(1, 0)) })
	_, err := iolib.WriteFull(s.conn, b)
	fired := stop()
	s.conn.SetWriteDeadLine(time.Time{})

	if err != nil {
		if fired {
			return errors.Wrap(ErrCancelled, err.Error())
		}
		return errors.Wrap(err, "writing")
	}

	return nil
}

// watch polls cancel every poll interval in the background and calls
// onCancel once it fires. The returned stop ends polling and reports
// whether onCancel was called.
func (s *streamSocket) watch(cancel CancelFunc, onCancel func()) (stop func() bool) {
	var (
		wg    sync.WaitGroup
		fired atomic.Bool
	)
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := s.clock.Ticker(s.opts.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if cancelled(cancel) {
					fired.Store(true)
					onCancel()
					return
				}
			}
		}
	}()

	return func() bool {
		close(done)
		wg.Wait()
		return fired.Load()
	}
}

func (s *streamSocket) ReadLine(cancel CancelFunc) (string, error) {
	if s.conn == nil {
		return "", ErrNotConnected
	}
	s.cancel = cancel

	line, err := s.ur.ReadUntilLimit([]byte{'\n'}, s.opts.MaxLineLength)
	if err != nil {
		if errors.Is(err, iolib.ErrLimitExceeded) {
			return "", ErrLineTooLong
		}
		return "", errors.Wrap(err, "reading line")
	}

	line = bytes.TrimSuffix(line[:len(line)-1], []byte{'\r'})
	return string(line), nil
}

func (s *streamSocket) ReadBytes(n int64, progress ProgressFunc, cancel CancelFunc) ([]byte, error) {
	if s.conn == nil {
		return nil, ErrNotConnected
	}
	s.cancel = cancel

	out := make([]byte, 0, min(n, int64(s.opts.ReadChunkSize)))
	chunk := make([]byte, s.opts.ReadChunkSize)

	for read := int64(0); read < n; {
		want := min(n-read, int64(len(chunk)))
		nn, err := s.ur.Read(chunk[:want])
		out = append(out, chunk[:nn]...)
		read += int64(nn)

		if nn > 0 && progress != nil && !progress(read, n) {
			return out, ErrAborted
		}

		if err != nil {
			return out, errors.Wrapf(err, "reading %d bytes (got %d)", n, read)
		}
	}

	return out, nil
}

func (s *streamSocket) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// pollReader reads from the socket's connection until data arrives,
// checking the socket's cancel function at every poll interval.
type pollReader struct{ s *streamSocket }

func (pr *pollReader) Read(b []byte) (int, error) {
	s := pr.s
	defer s.conn.SetReadDeadLine(time.Time{})

	for {
		if cancelled(s.cancel) {
			return 0, ErrCancelled
		}

		s.conn.SetReadDeadLine(s.clock.Now().Add(s.opts.PollInterval))
		n, err := s.conn.Read(b)
		if n == 0 && errors.Is(err, ErrDeadLineExceeded) {
			continue
		}

		if errors.Is(err, ErrDeadLineExceeded) {
			err = nil
		}
		return n, err
	}
}
