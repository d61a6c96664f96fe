package transfer

import (
	"bytes"
	"http-engine/application/util/rule"
	"http-engine/transport"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

const CodingChunked = "chunked"

var ErrMalformedChunkSize = errors.New("chunk size is malformed")

// ReadChunked decodes a chunked body and returns the concatenated chunk data.
// onChunk, if not nil, is told the size of every chunk as it is parsed.
// Reading stops after the zero sized last chunk. Trailer fields are not read.
// On failure the data decoded so far is returned along with the error.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-7.1
func ReadChunked(
	s transport.Socket,
	progress transport.ProgressFunc,
	cancel transport.CancelFunc,
	onChunk func(size int64),
) ([]byte, error) {
	payload := make([]byte, 0)

	for {
		line, err := s.ReadLine(cancel)
		if err != nil {
			return payload, errors.Wrap(err, "reading chunk size")
		}

		size, err := ParseChunkSize(line)
		if err != nil {
			return payload, err
		}

		if onChunk != nil {
			onChunk(size)
		}

		if size > 0 {
			data, err := s.ReadBytes(size, progress, cancel)
			payload = append(payload, data...)
			if err != nil {
				return payload, errors.Wrap(err, "reading chunk data")
			}
		}

		// Line terminating chunk data, or the end of the body after the last chunk.
		if _, err := s.ReadLine(cancel); err != nil {
			return payload, errors.Wrap(err, "reading chunk delimiter")
		}

		if size == 0 {
			return payload, nil
		}
	}
}

// ParseChunkSize parses the chunk size line. Surrounding whitespace is ignored.
// Chunk extensions are not supported: a line carrying one is malformed.
func ParseChunkSize(line string) (int64, error) {
	raw := rule.TrimOWS(line)
	if raw == "" {
		return 0, errors.Wrap(ErrMalformedChunkSize, "empty line")
	}

	for _, c := range raw {
		if !rule.IsHex(c) {
			return 0, errors.Wrapf(ErrMalformedChunkSize, "failed to decode hex: %q", line)
		}
	}

	size, err := strconv.ParseInt(raw, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedChunkSize, "chunk size %q: %s", raw, err)
	}

	return size, nil
}

// ChunkedWriter encodes a byte stream with the chunked transfer coding.
// Every non-empty Write becomes one chunk. Close writes the last chunk and the trailer section.
type ChunkedWriter struct {
	w         io.Writer
	headerBuf *bytes.Buffer

	extensions [][2]string
	trailers   [][2]string
}

var _ io.WriteCloser = (*ChunkedWriter)(nil)

func NewChunkedWriter(w io.Writer) *ChunkedWriter {
	return &ChunkedWriter{
		w:         w,
		headerBuf: bytes.NewBuffer(nil),
	}
}

// SetExtensions sets extension to the chunk.
// extension lives until [ChunkedWriter.Write].
func (cw *ChunkedWriter) SetExtensions(extensions [][2]string) {
	cw.extensions = extensions
}

// SetTrailers sets the fields Close writes after the last chunk.
func (cw *ChunkedWriter) SetTrailers(trailers [][2]string) {
	cw.trailers = trailers
}

func (cw *ChunkedWriter) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		// We should ignore 0 length chunks since it means EOF.
		return 0, nil
	}

	if err := cw.writeChunkHeader(len(p)); err != nil {
		return 0, err
	}

	if _, err := cw.w.Write(p); err != nil {
		return 0, errors.Wrap(err, "writing data")
	}

	if _, err := cw.w.Write(rule.CRLF); err != nil {
		return len(p), errors.Wrap(err, "writing data delimiter")
	}

	return len(p), nil
}

func (cw *ChunkedWriter) Close() error {
	if err := cw.writeChunkHeader(0); err != nil {
		return err
	}

	for _, field := range cw.trailers {
		if err := writeLine(cw.w, []byte(field[0]+": "+field[1])); err != nil {
			return errors.Wrap(err, "writing trailer")
		}
	}

	if err := writeLine(cw.w, nil); err != nil {
		return errors.Wrap(err, "writing last trailer line")
	}

	return nil
}

func (cw *ChunkedWriter) writeChunkHeader(size int) error {
	buf := cw.headerBuf
	buf.Reset()
	buf.WriteString(strconv.FormatInt(int64(size), 16))
	for _, ext := range cw.extensions {
		buf.WriteByte(';')
		buf.WriteString(ext[0])
		buf.WriteByte('=')
		buf.WriteString(ext[1])
	}
	cw.extensions = nil

	if err := writeLine(cw.w, buf.Bytes()); err != nil {
		return errors.Wrap(err, "writing chunk header")
	}

	return nil
}

func writeLine(w io.Writer, line []byte) error {
	_, err := w.Write(append(bytes.Clone(line), rule.CRLF...))
	if err != nil {
		return errors.Wrap(err, "writing line")
	}

	return nil
}
