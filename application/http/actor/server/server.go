// Package server serves HTTP/1.1 requests over any [transport.ConnListener],
// one request per connection. Handlers may write raw bytes, so clients can be
// driven through well-formed and malformed exchanges alike.
package server

import (
	"context"
	iolib "http-engine/lib/io"
	"http-engine/transport"
	"log/slog"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

type Server struct {
	l transport.ConnListener

	closeListener func()
	wg            sync.WaitGroup

	logger *slog.Logger
	opts   Options

	handle HandleFunc
	clock  clock.Clock
}

func New(
	l transport.ConnListener,
	logger *slog.Logger,
	clock clock.Clock,
	handle HandleFunc,
	opts Options,
) *Server {
	return &Server{
		l:      l,
		logger: logger,
		opts:   opts,
		handle: handle,
		clock:  clock,
	}
}

func (s *Server) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.closeListener = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.acceptConn(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) && !errors.Is(err, transport.ErrConnListenerClosed) {
					s.logger.Error(
						"unexpected error when accepting connection",
						"error", err.Error(),
					)
				}
				return
			}

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				conn.start(ctx)
			}()
		}
	}()
}

func (s *Server) acceptConn(ctx context.Context) (*conn, error) {
	con, err := s.l.Accept(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listening for connection")
	}

	conn := &conn{
		con:    con,
		r:      iolib.NewUntilReader(con),
		handle: s.handle,
		opts:   s.opts,
		logger: s.logger.With("remote", con.RemoteAddr().String()),
		clock:  s.clock,
	}

	return conn, nil
}

// Close stops accepting connections, closes the ones in flight
// and waits for their handlers to return.
func (s *Server) Close() error {
	if s.closeListener == nil {
		return nil
	}
	s.closeListener()
	s.wg.Wait()
	return nil
}
