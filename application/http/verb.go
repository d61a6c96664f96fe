package http

// Verb is a request method. Comparison is exact and case-sensitive.
type Verb string

const (
	GET    Verb = "GET"
	HEAD   Verb = "HEAD"
	POST   Verb = "POST"
	PUT    Verb = "PUT"
	DELETE Verb = "DELETE"
)

// HasBody reports whether requests with v carry a body.
func (v Verb) HasBody() bool {
	return v == POST || v == PUT
}

func (v Verb) String() string { return string(v) }
