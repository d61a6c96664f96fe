package uri

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Endpoint is what an HTTP client needs out of a URL to send a request.
type Endpoint struct {
	Scheme string
	// Host is the host to dial. Brackets of an IPv6 literal are removed.
	Host string
	// HostHeader is the value of the Host header field: the host as it
	// appeared in the URL, with the port when the URL carries one.
	//
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-3.2
	HostHeader string
	Port       uint16
	// Target is the origin-form request target, path and query.
	Target string
	// TLS reports whether the scheme is https.
	TLS bool
}

// DefaultPort returns the well-known port for scheme.
func DefaultPort(scheme string) (uint16, error) {
	switch scheme {
	case "http":
		return 80, nil
	case "https":
		return 443, nil
	}
	return 0, errors.Errorf("unsupported scheme %q", scheme)
}

// ParseEndpoint parses rawURL as an absolute http or https URL.
func ParseEndpoint(rawURL string) (Endpoint, error) {
	u, err := Parse(rawURL)
	if err != nil {
		return Endpoint{}, err
	}

	if u.IsRelativeRef() {
		return Endpoint{}, errors.New("URL has no scheme")
	}

	port, err := DefaultPort(u.Scheme)
	if err != nil {
		return Endpoint{}, err
	}

	if u.Authority == nil || u.Authority.Host == "" {
		return Endpoint{}, errors.New("URL has no host")
	}

	if u.Authority.Port != nil {
		port = *u.Authority.Port
	}

	hostHeader := u.Authority.Host
	if u.Authority.Port != nil {
		hostHeader += ":" + strconv.FormatUint(uint64(port), 10)
	}

	host := u.Authority.Host
	if strings.HasPrefix(host, "[") {
		host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	}

	return Endpoint{
		Scheme:     u.Scheme,
		Host:       host,
		HostHeader: hostHeader,
		Port:       port,
		Target:     u.RequestTarget(),
		TLS:        u.Scheme == "https",
	}, nil
}
