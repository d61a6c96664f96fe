package content

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInflateRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	random := make([]byte, 100_000)
	for i := range random {
		random[i] = byte(r.UintN(256))
	}

	testcases := []struct {
		desc  string
		input []byte
	}{
		{desc: "text", input: []byte("Hello, World!")},
		{desc: "larger than scratch buffer", input: bytes.Repeat([]byte("compressible "), 10_000)},
		{desc: "random bytes", input: random},
		{desc: "empty member", input: []byte{}},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			compressed, err := Deflate(tc.input)
			require.NoError(t, err)

			out, err := Inflate(compressed)
			require.NoError(t, err)
			assert.Equal(t, tc.input, out)
		})
	}
}

func TestInflateEmptyInput(t *testing.T) {
	out, err := Inflate(nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestInflateFailure(t *testing.T) {
	compressed, err := Deflate(bytes.Repeat([]byte("payload "), 1000))
	require.NoError(t, err)

	corrupted := bytes.Clone(compressed)
	corrupted[len(corrupted)-5] ^= 0xFF // CRC32 / ISIZE trailer

	testcases := []struct {
		desc  string
		input []byte
	}{
		{desc: "not gzip", input: []byte("plain text, no magic")},
		{desc: "truncated", input: compressed[:len(compressed)/2]},
		{desc: "missing trailer", input: compressed[:len(compressed)-8]},
		{desc: "corrupted trailer", input: corrupted},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			out, err := Inflate(tc.input)
			assert.Error(t, err)
			assert.Nil(t, out)
		})
	}
}

func TestInflateSingleMember(t *testing.T) {
	first, err := Deflate([]byte("first"))
	require.NoError(t, err)
	second, err := Deflate([]byte("second"))
	require.NoError(t, err)

	out, err := Inflate(append(first, second...))
	require.NoError(t, err)
	assert.Equal(t, "first", string(out))
}
