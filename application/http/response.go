package http

// ErrorCode tells which step of a request ended it.
type ErrorCode int

const (
	Ok ErrorCode = iota
	UrlMalformed
	CannotCreateSocket
	CannotConnect
	SendError
	CannotReadStatusLine
	MissingStatus
	HeaderParsingError
	MissingLocation
	TooManyRedirects
	CannotReadBody
	ChunkReadError
	Gzip
)

var errorCodeNames = [...]string{
	Ok:                   "Ok",
	UrlMalformed:         "UrlMalformed",
	CannotCreateSocket:   "CannotCreateSocket",
	CannotConnect:        "CannotConnect",
	SendError:            "SendError",
	CannotReadStatusLine: "CannotReadStatusLine",
	MissingStatus:        "MissingStatus",
	HeaderParsingError:   "HeaderParsingError",
	MissingLocation:      "MissingLocation",
	TooManyRedirects:     "TooManyRedirects",
	CannotReadBody:       "CannotReadBody",
	ChunkReadError:       "ChunkReadError",
	Gzip:                 "Gzip",
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(errorCodeNames) {
		return "Unknown"
	}
	return errorCodeNames[c]
}

// Response is the outcome of a request. On failure it keeps whatever
// was gathered before the failing step.
type Response struct {
	// Zero if no status line was received.
	StatusCode   int
	ErrorCode    ErrorCode
	Headers      Headers
	Payload      []byte
	ErrorMessage string

	// Bytes of the request as written.
	UploadSize int64
	// Bytes of the body as received, before decompression.
	DownloadSize int64
}

func (r *Response) OK() bool { return r.ErrorCode == Ok }
