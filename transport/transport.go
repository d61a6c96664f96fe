// Package transport defines the byte-stream capabilities the HTTP engine runs on:
// connections, the dialers that create them, and the polling [Socket] on top.
package transport

import (
	"net"
	"strconv"
)

// Addr is the destination of a stream connection.
// Host is either a name or an IP address without brackets.
type Addr struct {
	Host string
	Port uint16
}

func (a Addr) String() string {
	return net.JoinHostPort(a.Host, strconv.FormatUint(uint64(a.Port), 10))
}
