package http

import "time"

// ProgressFunc receives the number of bytes read so far and the number expected.
// Returning false aborts the read.
type ProgressFunc func(current, total int64) bool

const (
	DefaultConnectTimeout  = 60 * time.Second
	DefaultTransferTimeout = 1800 * time.Second
	DefaultMaxRedirects    = 5
)

// RequestArgs describes one logical request. It is not modified while the
// request and its redirects are carried out.
type RequestArgs struct {
	URL  string
	Verb Verb
	// Body is sent only with POST and PUT.
	Body         []byte
	ExtraHeaders Headers

	// Zero or negative means no timeout.
	ConnectTimeout time.Duration
	// Bounds everything from sending the request to reading the body.
	// Zero or negative means no timeout.
	TransferTimeout time.Duration

	FollowRedirects bool
	MaxRedirects    int

	Verbose bool
	// Compress asks the server for a gzip encoded response.
	Compress bool

	OnProgress ProgressFunc
	// Logger receives diagnostic lines when Verbose is set.
	Logger func(string)
}

func NewRequestArgs(url string, verb Verb) *RequestArgs {
	return &RequestArgs{
		URL:             url,
		Verb:            verb,
		ConnectTimeout:  DefaultConnectTimeout,
		TransferTimeout: DefaultTransferTimeout,
		FollowRedirects: true,
		MaxRedirects:    DefaultMaxRedirects,
		Compress:        true,
	}
}

// Log hands a diagnostic line to a.Logger if a is verbose.
func (a *RequestArgs) Log(line string) {
	if a.Verbose && a.Logger != nil {
		a.Logger(line)
	}
}
