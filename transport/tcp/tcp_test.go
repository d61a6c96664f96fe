package tcp

import (
	"context"
	"http-engine/transport"
	"http-engine/transport/test"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type WrappedPipeTestSuite struct {
	test.ConnTestSuite
}

func TestWrappedPipeTestSuite(t *testing.T) {
	suite.Run(t, new(WrappedPipeTestSuite))
}

func (s *WrappedPipeTestSuite) SetupTest() {
	s.ConnTestSuite.SetupTest()
	c1, c2 := net.Pipe()
	s.C1, s.C2 = Wrap(c1), Wrap(c2)
}

func addrOf(t *testing.T, a net.Addr) transport.Addr {
	ap, err := netip.ParseAddrPort(a.String())
	require.NoError(t, err)
	return transport.Addr{Host: ap.Addr().String(), Port: ap.Port()}
}

func TestDialer(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := l.Accept()
		if err == nil {
			accepted <- c
		}
		close(accepted)
	}()

	d := NewDialer(DialerOptions{})
	conn, err := d.Dial(context.Background(), addrOf(t, l.Addr()))
	require.NoError(t, err)
	defer conn.Close()

	peer := <-accepted
	require.NotNil(t, peer)

	assert.Equal(t, addrOf(t, l.Addr()), conn.RemoteAddr())
	assert.Equal(t, addrOf(t, peer.RemoteAddr()), conn.LocalAddr())

	_, err = peer.Write([]byte("hello"))
	require.NoError(t, err)

	buf := make([]byte, 5)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), buf)

	conn.SetReadDeadLine(time.Now().Add(10 * time.Millisecond))
	_, err = conn.Read(buf)
	assert.ErrorIs(t, err, transport.ErrDeadLineExceeded)
	conn.SetReadDeadLine(time.Time{})

	require.NoError(t, peer.Close())
	_, err = conn.Read(buf)
	assert.ErrorIs(t, err, transport.ErrConnClosed)

	assert.NoError(t, conn.Close())
	assert.NoError(t, conn.Close(), "closing twice is fine")
}

func TestDialerRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := addrOf(t, l.Addr())
	require.NoError(t, l.Close())

	_, err = NewDialer(DialerOptions{}).Dial(context.Background(), addr)
	assert.ErrorIs(t, err, transport.ErrConnRefused)
}

func TestDialerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDialer(DialerOptions{}).Dial(ctx, transport.Addr{Host: "127.0.0.1", Port: 1})
	assert.Error(t, err)
}

func TestTLSDialer(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("secure"))
	}))
	defer srv.Close()

	addr := addrOf(t, srv.Listener.Addr())

	t.Run("insecure skip verify", func(t *testing.T) {
		d := NewTLSDialer(TLSOptions{InsecureSkipVerify: true})
		conn, err := d.Dial(context.Background(), addr)
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.Write([]byte("GET / HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n"))
		require.NoError(t, err)

		var out []byte
		buf := make([]byte, 512)
		for {
			n, err := conn.Read(buf)
			out = append(out, buf[:n]...)
			if err != nil {
				assert.ErrorIs(t, err, transport.ErrConnClosed)
				break
			}
		}

		assert.True(t, strings.HasPrefix(string(out), "HTTP/1.1 200 OK\r\n"))
		assert.True(t, strings.HasSuffix(string(out), "secure"))
	})

	t.Run("unknown authority", func(t *testing.T) {
		d := NewTLSDialer(TLSOptions{})
		_, err := d.Dial(context.Background(), addr)
		assert.Error(t, err)
	})
}
