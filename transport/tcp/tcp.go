// Package tcp dials stream connections over the operating system's TCP stack,
// optionally secured with TLS, and adapts them to [transport.Conn].
package tcp

import (
	"context"
	"crypto/tls"
	"http-engine/transport"
	"io"
	"net"
	"net/netip"
	"os"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

// conn adapts [net.Conn] to [transport.Conn].
type conn struct {
	nc net.Conn
}

var _ transport.Conn = (*conn)(nil)

// Wrap adapts nc to [transport.Conn].
func Wrap(nc net.Conn) transport.Conn {
	return &conn{nc: nc}
}

func (c *conn) Read(p []byte) (int, error) {
	n, err := c.nc.Read(p)
	return n, convertErr(err)
}

func (c *conn) Write(p []byte) (int, error) {
	n, err := c.nc.Write(p)
	return n, convertErr(err)
}

func (c *conn) Close() error {
	if err := c.nc.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

func (c *conn) LocalAddr() transport.Addr  { return toAddr(c.nc.LocalAddr()) }
func (c *conn) RemoteAddr() transport.Addr { return toAddr(c.nc.RemoteAddr()) }

func (c *conn) SetReadDeadLine(t time.Time)  { _ = c.nc.SetReadDeadline(t) }
func (c *conn) SetWriteDeadLine(t time.Time) { _ = c.nc.SetWriteDeadline(t) }

func toAddr(a net.Addr) transport.Addr {
	if a == nil {
		return transport.Addr{}
	}
	if ap, err := netip.ParseAddrPort(a.String()); err == nil {
		return transport.Addr{Host: ap.Addr().String(), Port: ap.Port()}
	}
	return transport.Addr{Host: a.String()}
}

func convertErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrDeadlineExceeded):
		return transport.ErrDeadLineExceeded
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrClosedPipe),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return errors.Wrap(transport.ErrConnClosed, err.Error())
	case errors.Is(err, syscall.ECONNREFUSED):
		return errors.Wrap(transport.ErrConnRefused, err.Error())
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return errors.Wrap(transport.ErrNetUnreachable, err.Error())
	}
	return err
}

type DialerOptions struct {
	// KeepAlive is the period of TCP keep-alive probes. Zero uses the system default.
	KeepAlive time.Duration
}

// Dialer dials plain TCP connections.
type Dialer struct {
	nd net.Dialer
}

var _ transport.ConnDialer = (*Dialer)(nil)

func NewDialer(opts DialerOptions) *Dialer {
	return &Dialer{nd: net.Dialer{KeepAlive: opts.KeepAlive}}
}

func (d *Dialer) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	nc, err := d.nd.DialContext(ctx, "tcp", addr.String())
	if err != nil {
		return nil, convertErr(err)
	}
	return Wrap(nc), nil
}

type TLSOptions struct {
	DialerOptions
	// InsecureSkipVerify disables verification of the server's certificate chain and host name.
	InsecureSkipVerify bool
}

// TLSDialer dials TCP connections and runs the TLS handshake on them.
// The host of the dialed address is the server name.
type TLSDialer struct {
	nd   net.Dialer
	opts TLSOptions
}

var _ transport.ConnDialer = (*TLSDialer)(nil)

func NewTLSDialer(opts TLSOptions) *TLSDialer {
	return &TLSDialer{
		nd:   net.Dialer{KeepAlive: opts.KeepAlive},
		opts: opts,
	}
}

func (d *TLSDialer) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	td := tls.Dialer{
		NetDialer: &d.nd,
		Config: &tls.Config{
			ServerName:         addr.Host,
			InsecureSkipVerify: d.opts.InsecureSkipVerify,
			MinVersion:         tls.VersionTLS12,
		},
	}

	nc, err := td.DialContext(ctx, "tcp", addr.String())
	if err != nil {
		return nil, errors.Wrap(convertErr(err), "tls handshake")
	}
	return Wrap(nc), nil
}
