package http

import (
	"bytes"
	"http-engine/application/util/rule"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	defaultAccept      = "*/*"
	defaultContentType = "application/x-www-form-urlencoded"
)

// BuildRequest encodes the request line, the header section and, for POST and PUT, the body.
// Accept and User-Agent default values are added only when args.ExtraHeaders lacks them.
// The same goes for Content-Type of a request with a body.
func BuildRequest(verb Verb, target, host string, body []byte, args *RequestArgs, userAgent string) []byte {
	buf := bytes.NewBuffer(nil)

	writeLine := func(parts ...string) {
		for _, p := range parts {
			buf.WriteString(p)
		}
		buf.Write(rule.CRLF)
	}

	writeLine(string(verb), " ", target, " HTTP/1.1")
	writeLine("Host: ", host)

	if args.Compress {
		writeLine("Accept-Encoding: gzip")
	}

	for _, field := range args.ExtraHeaders.Fields() {
		writeLine(field[0], ": ", field[1])
	}

	if !args.ExtraHeaders.Has("Accept") {
		writeLine("Accept: ", defaultAccept)
	}

	if !args.ExtraHeaders.Has("User-Agent") {
		writeLine("User-Agent: ", userAgent)
	}

	if !verb.HasBody() {
		writeLine()
		return buf.Bytes()
	}

	writeLine("Content-Length: ", strconv.Itoa(len(body)))
	if !args.ExtraHeaders.Has("Content-Type") {
		writeLine("Content-Type: ", defaultContentType)
	}
	writeLine()
	buf.Write(body)

	return buf.Bytes()
}

var (
	ErrMalformedStatusLine = errors.New("status line is malformed")
	ErrMalformedFieldLine  = errors.New("field line is malformed")
)

const statusLinePrefix = "HTTP/1.1 "

// ParseStatusLine returns the status code of a status line, e.g. "HTTP/1.1 200 OK".
// The reason phrase is optional and ignored.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-4
func ParseStatusLine(line string) (int, error) {
	rest, found := strings.CutPrefix(line, statusLinePrefix)
	if !found {
		return 0, errors.Wrapf(ErrMalformedStatusLine, "http version prefix not found: %q", line)
	}

	statusCodeStr, _, _ := strings.Cut(rest, " ")
	statusCode, err := strconv.ParseUint(statusCodeStr, 10, 16)
	if err != nil || len(statusCodeStr) != 3 {
		return 0, errors.Wrapf(ErrMalformedStatusLine, "status code is malformed: %q", statusCodeStr)
	}

	return int(statusCode), nil
}

// ParseField splits a field line on its first colon.
// Surrounding whitespace of both the name and the value is removed.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5
func ParseField(line string) (key, value string, err error) {
	key, value, found := strings.Cut(line, ":")
	if !found {
		return "", "", errors.Wrapf(ErrMalformedFieldLine, "colon seperator not found on header: %q", line)
	}

	key = rule.TrimOWS(key)
	if key == "" {
		return "", "", errors.Wrapf(ErrMalformedFieldLine, "field name is empty: %q", line)
	}

	return key, rule.TrimOWS(value), nil
}
