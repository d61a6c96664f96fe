package uri

import (
	"http-engine/application/util/rule"
	"net/netip"
	"strings"

	"github.com/pkg/errors"
)

func containsCTL(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b < ' ' || b == 0x7f {
			return true
		}
	}
	return false
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.2
func isSubDelim(c byte) bool {
	switch c {
	case '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return true
	}
	return false
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.3
func isUnreserved(c byte) bool {
	if rule.IsAlnum(rune(c)) {
		return true
	}
	switch c {
	case '-', '.', '_', '~':
		return true
	}
	return false
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.1
func isPercentEncoded(s string) bool {
	if len(s) != 3 {
		return false
	}

	return s[0] == '%' &&
		rule.IsHex(rune(s[1])) &&
		rule.IsHex(rune(s[2]))
}

// allOf reports whether every byte of s is either accepted by ok or a part of percent-encoded octet.
func allOf(s string, ok func(c byte) bool) bool {
	for idx := 0; idx < len(s); idx++ {
		if ok(s[idx]) {
			continue
		}
		if idx+2 < len(s) && isPercentEncoded(s[idx:idx+3]) {
			idx += 2
			continue
		}
		return false
	}

	return true
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3.3
func isPchar(c byte) bool {
	return isUnreserved(c) || isSubDelim(c) || c == ':' || c == '@'
}

func assertValidScheme(scheme string) error {
	if len(scheme) == 0 {
		return errors.New("scheme is empty")
	}

	if !rule.IsAlpha(rune(scheme[0])) {
		return errors.New("scheme doesn't start with ALPHA")
	}

	for idx := 1; idx < len(scheme); idx++ {
		c := scheme[idx]
		switch {
		case rule.IsAlnum(rune(c)):
		case c == '+' || c == '-' || c == '.':
		default:
			return errors.New("scheme contains invalid byte")
		}
	}

	return nil
}

func assertValidHost(host string) error {
	if host == "" {
		// Empty value for reg-name is valid.
		// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3.2.2
		return nil
	}
	if len(host) > 255 {
		return errors.Errorf("host length exceeds limit(255): %d", len(host))
	}

	first, last := 0, len(host)-1
	if host[first] == '[' && host[last] == ']' {
		// This is IP Literal.
		literal := host[first+1 : last]
		if addr, err := netip.ParseAddr(literal); err == nil && addr.Is6() {
			return nil
		}
		if isIPvFuture(literal) {
			return nil
		}

		return errors.New("host is expected to be IP Literal, but was malformed")
	}

	// A dotted-decimal IPv4 address is also a valid reg-name,
	// so reg-name rule covers both.
	if isValidRegName(host) {
		return nil
	}

	return errors.New("host is neither ipv4 addr nor valid reg-name")
}

func isValidUserInfo(s string) bool {
	return allOf(s, func(c byte) bool { return isUnreserved(c) || isSubDelim(c) || c == ':' })
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3.2.2
func isValidRegName(s string) bool {
	return allOf(s, func(c byte) bool { return isUnreserved(c) || isSubDelim(c) })
}

func isIPvFuture(s string) bool {
	if len(s) < 4 {
		return false
	}

	// v8. vA. vF.
	if !(s[0] == 'v' && rule.IsHex(rune(s[1])) && s[2] == '.') {
		return false
	}

	for idx := 3; idx < len(s); idx++ {
		c := s[idx]
		if !(isUnreserved(c) || isSubDelim(c) || c == ':') {
			return false
		}
	}

	return true
}

func assertValidPath(path string, hasAuthority bool, isRelative bool) error {
	if hasAuthority {
		if !(path == "" || path[0] == '/') {
			return errors.New(
				"URI with authority must either be empty or start with '/'",
			)
		}
	} else if strings.HasPrefix(path, "//") {
		return errors.New("URI without authority should not start with '//'")
	}

	segments := strings.Split(path, "/")
	if isRelative && strings.ContainsRune(segments[0], ':') {
		return errors.New(
			"relative URI reference's first segment should not contain ':'",
		)
	}

	for _, segment := range segments {
		if !allOf(segment, isPchar) {
			return errors.New("path segment should be pchar")
		}
	}

	return nil
}

// Reference:
// https://datatracker.ietf.org/doc/html/rfc3986#section-3.4
// https://datatracker.ietf.org/doc/html/rfc3986#section-3.5
func isQueryFragValid(s string) bool {
	return allOf(s, func(c byte) bool { return isPchar(c) || c == '/' || c == '?' })
}
