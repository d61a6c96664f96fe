package server

import "time"

type Options struct {
	// ReadTimeout bounds reading the request. Zero means no limit.
	ReadTimeout time.Duration
	// MaxLineLength limits the request line and every field line. Zero means no limit.
	MaxLineLength uint
}
