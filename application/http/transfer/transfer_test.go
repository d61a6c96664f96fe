package transfer

import (
	"http-engine/transport"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentLength(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected int64
		wantErr  bool
	}{
		{desc: "number", input: "42", expected: 42},
		{desc: "zero", input: "0", expected: 0},
		{desc: "surrounding whitespace", input: " 7\t", expected: 7},
		{desc: "empty", input: "", wantErr: true},
		{desc: "signed", input: "+5", wantErr: true},
		{desc: "negative", input: "-5", wantErr: true},
		{desc: "list", input: "5, 5", wantErr: true},
		{desc: "overflow", input: "99999999999999999999", wantErr: true},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			n, err := ParseContentLength(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.expected, n)
		})
	}
}

func TestReadContentLength(t *testing.T) {
	s := newStubSocket("hello world, and some more")

	var last [2]int64
	b, err := ReadContentLength(s, 11, func(current, total int64) bool {
		last = [2]int64{current, total}
		return true
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "hello world", string(b))
	assert.Equal(t, [2]int64{11, 11}, last)
}

func TestReadContentLengthShort(t *testing.T) {
	s := newStubSocket("short")

	b, err := ReadContentLength(s, 10, nil, nil)
	assert.ErrorIs(t, err, transport.ErrConnClosed)
	assert.Equal(t, "short", string(b))
}

func TestReadContentLengthCancelled(t *testing.T) {
	s := newStubSocket("hello")

	_, err := ReadContentLength(s, 5, nil, func() bool { return true })
	assert.ErrorIs(t, err, transport.ErrCancelled)
}

func TestReadContentLengthNegative(t *testing.T) {
	_, err := ReadContentLength(newStubSocket(""), -1, nil, nil)
	assert.Error(t, err)
}
