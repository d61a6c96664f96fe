// Package http holds the message model of an HTTP/1.1 client:
// request arguments, responses, header fields and the wire format of a request.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc9110
//
// - https://datatracker.ietf.org/doc/html/rfc9112
package http
