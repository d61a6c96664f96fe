package iolib

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteFull(t *testing.T) {
	data := []byte("Hello, World!")
	var buf bytes.Buffer

	written, err := WriteFull(&buf, data)
	assert.NoError(t, err)
	assert.Equal(t, uint(len(data)), written)
	assert.Equal(t, data, buf.Bytes())
}

// shortWriter writes at most max bytes per call and fails once failAfter bytes are written.
type shortWriter struct {
	buf       bytes.Buffer
	max       int
	failAfter int
}

var errShortWriter = errors.New("writer is full")

func (w *shortWriter) Write(p []byte) (int, error) {
	if w.failAfter > 0 && w.buf.Len() >= w.failAfter {
		return 0, errShortWriter
	}
	if len(p) > w.max {
		p = p[:w.max]
	}
	return w.buf.Write(p)
}

func TestWriteFullShortWrites(t *testing.T) {
	data := []byte("Hello, World!")
	w := &shortWriter{max: 3}

	written, err := WriteFull(w, data)
	assert.NoError(t, err)
	assert.Equal(t, uint(len(data)), written)
	assert.Equal(t, data, w.buf.Bytes())
}

func TestWriteFullError(t *testing.T) {
	data := []byte("Hello, World!")
	w := &shortWriter{max: 4, failAfter: 8}

	written, err := WriteFull(w, data)
	assert.ErrorIs(t, err, errShortWriter)
	assert.Equal(t, uint(8), written)
}
