package iolib

import "io"

// WriteFull writes buf to w until every byte is written or w returns an error.
// Short writes without an error are retried.
func WriteFull(w io.Writer, buf []byte) (uint, error) {
	total := uint(0)
	for total < uint(len(buf)) {
		n, err := w.Write(buf[total:])
		total += uint(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
