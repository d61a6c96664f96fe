package uri

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// URI holds the components of a URI reference.
// Path, Query and Fragment are kept percent-encoded.
type URI struct {
	Scheme    string
	Authority *Authority
	Path      string
	Query     *string
	Fragment  *string
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-4.2
func (u *URI) IsRelativeRef() bool {
	return u.Scheme == ""
}

// RequestTarget returns the origin-form of the URI: path and query.
// An empty path is sent as "/".
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-3.2.1
func (u *URI) RequestTarget() string {
	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.Query != nil {
		return path + "?" + *u.Query
	}
	return path
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.3
func (u *URI) String() string {
	b := new(strings.Builder)
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteByte(':')
	}

	if u.Authority != nil {
		b.WriteString("//")
		b.WriteString(u.Authority.String())
	}

	b.WriteString(u.Path)

	if u.Query != nil {
		b.WriteByte('?')
		b.WriteString(*u.Query)
	}

	if u.Fragment != nil {
		b.WriteByte('#')
		b.WriteString(*u.Fragment)
	}

	return b.String()
}

type Authority struct {
	UserInfo string
	// Host keeps the brackets of an IP literal, e.g. "[::1]".
	Host string

	// NOTE: Port can be digits of any length. But practically it is in range of 0 ~ 65535.
	// Reference: datatracker.ietf.org/doc/html/rfc3986#section-3.2.3
	Port *uint16
}

func (a Authority) String() string {
	b := new(strings.Builder)
	if a.UserInfo != "" {
		b.WriteString(a.UserInfo)
		b.WriteByte('@')
	}
	b.WriteString(a.Host)
	if a.Port != nil {
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(*a.Port), 10))
	}
	return b.String()
}

func Parse(rawURL string) (URI, error) {
	if containsCTL(rawURL) {
		return URI{}, errors.New("URI should not contain CTL bytes")
	}
	if strings.ContainsRune(rawURL, ' ') {
		return URI{}, errors.New("URI should not contain spaces")
	}

	var uri URI

	scheme, rest, err := cutScheme(rawURL)
	if err != nil {
		return URI{}, errors.Wrap(err, "getting scheme")
	}
	// Scheme is case-insensitive. Lowercase is canonical.
	uri.Scheme = strings.ToLower(scheme)

	if strings.HasPrefix(rest, "//") {
		authorityRaw := rest[2:]
		rest = ""
		if i := strings.IndexAny(authorityRaw, "/?#"); i >= 0 {
			authorityRaw, rest = authorityRaw[:i], authorityRaw[i:]
		}

		authority, err := parseAuthority(authorityRaw)
		if err != nil {
			return URI{}, errors.Wrap(err, "parsing authority")
		}

		uri.Authority = &authority
	}

	path, query, frag := splitPathQueryFrag(rest)

	hasAuthority := uri.Authority != nil
	if err := assertValidPath(path, hasAuthority, uri.IsRelativeRef()); err != nil {
		return URI{}, errors.Wrap(err, "path is not valid")
	}
	uri.Path = path

	if len(query) > 0 {
		// Strip '?' from query.
		query = query[1:]
		if !isQueryFragValid(query) {
			return URI{}, errors.New("query is not valid")
		}
		uri.Query = &query
	}

	if len(frag) > 0 {
		// Strip '#' from fragment.
		frag = frag[1:]
		if !isQueryFragValid(frag) {
			return URI{}, errors.New("fragment is not valid")
		}
		uri.Fragment = &frag
	}

	return uri, nil
}

// cutScheme cuts scheme from rawURL. If scheme is not valid, it returns an error.
// A colon that shows up only after a '/', '?' or '#' does not delimit a scheme.
func cutScheme(rawURL string) (scheme, rest string, err error) {
	idx := strings.IndexByte(rawURL, ':')
	if idx < 0 || strings.ContainsAny(rawURL[:idx], "/?#") {
		// Relative reference.
		return "", rawURL, nil
	}

	scheme, rest = rawURL[:idx], rawURL[idx+1:]
	if err := assertValidScheme(scheme); err != nil {
		return "", "", err
	}

	return scheme, rest, nil
}

func parseAuthority(raw string) (authority Authority, err error) {
	host := raw
	if i := strings.LastIndex(raw, "@"); i >= 0 {
		authority.UserInfo, host = raw[:i], raw[i+1:]
		if !isValidUserInfo(authority.UserInfo) {
			return Authority{}, errors.New("user information is not valid")
		}
	}

	host, portPart, err := getHostPort(host)
	if err != nil {
		return Authority{}, errors.Wrap(err, "parsing host")
	}

	port, hasPort, err := parsePort(portPart)
	if err != nil {
		return Authority{}, errors.Wrap(err, "parsing port")
	}

	if hasPort {
		authority.Port = &port
	}

	// Host is case-insensitive.
	authority.Host = strings.ToLower(host)

	return authority, nil
}

func getHostPort(raw string) (host string, portPart string, err error) {
	if strings.HasPrefix(raw, "[") {
		// This is IP Literal.
		idx := strings.LastIndex(raw, "]")
		if idx < 0 {
			return "", "", errors.New("missing ']' in IP Literal")
		}

		host = raw[:idx+1]
		portPart = raw[idx+1:]
	} else {
		// ipv4 or reg-name.
		host = raw
		if idx := strings.LastIndex(raw, ":"); idx >= 0 {
			host = raw[:idx]
			portPart = raw[idx:]
		}
	}

	if err := assertValidHost(host); err != nil {
		return "", "", errors.Wrap(err, "host is not valid")
	}

	return host, portPart, nil
}

// parsePort parses ":<port>". An empty port after the colon is the same as no port.
func parsePort(s string) (port uint16, hasPort bool, err error) {
	if s == "" || s == ":" {
		return 0, false, nil
	}

	if s[0] != ':' {
		return 0, false, errors.New("colon delimiter not found on port")
	}

	s = s[1:]

	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to parse uint")
	}

	return uint16(n), true, nil
}

func splitPathQueryFrag(raw string) (path, query, frag string) {
	if idx := strings.IndexByte(raw, '#'); idx >= 0 {
		frag = raw[idx:]
		raw = raw[:idx]
	}

	if idx := strings.IndexByte(raw, '?'); idx >= 0 {
		query = raw[idx:]
		raw = raw[:idx]
	}

	path = raw
	return
}
