package cli

import (
	"http-engine/application/http"
	"http-engine/application/http/form"
	"http-engine/application/util/rule"
	"http-engine/application/util/uri"
	"strings"
)

// parseHeaders reads one "Key: Value" field per line.
// A line is split at its last colon. Lines without one are skipped.
func parseHeaders(data string) http.Headers {
	headers := http.Headers{}
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSuffix(line, "\r")

		idx := strings.LastIndexByte(line, ':')
		if idx < 0 {
			continue
		}

		value := strings.TrimLeft(line[idx+1:], string(rule.OWS))
		headers.Set(line[:idx], value)
	}
	return headers
}

// parseParameters reads one "key=value" parameter per line.
// A line is split at its last equal sign. Lines without one are skipped.
func parseParameters(data string) form.Parameters {
	params := form.Parameters{}
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSuffix(line, "\r")

		idx := strings.LastIndexByte(line, '=')
		if idx < 0 {
			continue
		}

		params.Set(line[:idx], line[idx+1:])
	}
	return params
}

const defaultFilename = "index.html"

// extractFilename names a download after the last path segment of rawURL.
func extractFilename(rawURL string) string {
	path := rawURL
	if u, err := uri.Parse(rawURL); err == nil {
		path = u.Path
	}

	name := path[strings.LastIndexByte(path, '/')+1:]
	if unescaped, err := uri.Unescape(name); err == nil {
		name = unescaped
	}

	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, '/') {
		return defaultFilename
	}
	return name
}
