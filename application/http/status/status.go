// Package status names HTTP status codes.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-15
package status

// Successful 2xx
const (
	OK        = 200
	NoContent = 204
)

// Redirection 3xx
const (
	MultipleChoices   = 300
	MovedPermanently  = 301
	Found             = 302
	SeeOther          = 303
	NotModified       = 304
	TemporaryRedirect = 307
	PermanentRedirect = 308
)

// Client and server errors 4xx, 5xx
const (
	BadRequest          = 400
	NotFound            = 404
	InternalServerError = 500
)

var reasonPhrases = map[int]string{
	100: "Continue",
	101: "Switching Protocols",

	200: "OK",
	201: "Created",
	202: "Accepted",
	203: "Non-Authoritative Information",
	204: "No Content",
	205: "Reset Content",
	206: "Partial Content",

	300: "Multiple Choices",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	305: "Use Proxy",
	307: "Temporary Redirect",
	308: "Permanent Redirect",

	400: "Bad Request",
	401: "Unauthorized",
	402: "Payment Required",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	407: "Proxy Authentication Required",
	408: "Request Timeout",
	409: "Conflict",
	410: "Gone",
	411: "Length Required",
	412: "Precondition Failed",
	413: "Content Too Large",
	414: "URI Too Long",
	415: "Unsupported Media Type",
	416: "Range Not Satisfiable",
	417: "Expectation Failed",
	418: "I'm a teapot", // Unused. But I like the joke.
	421: "Misdirected Request",
	422: "Unprocessable Content",
	426: "Upgrade Required",

	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
	505: "HTTP Version Not Supported",
}

// ReasonPhrase returns the registered reason phrase of code,
// or an empty string for an unknown code.
func ReasonPhrase(code int) string {
	return reasonPhrases[code]
}

// IsRedirect reports whether code asks the client to follow a Location.
// 300 is left out, as its choice isn't made automatically.
func IsRedirect(code int) bool {
	return MovedPermanently <= code && code <= PermanentRedirect
}
