package rule

import "strings"

// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.2-2
func IsValidToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if IsAlnum(c) {
			continue
		}

		switch c {
		case '!', '#', '$', '%', '&', '\'', '*', '+',
			'-', '.', '^', '_', '`', '|', '~':
			continue
		}

		return false
	}

	return true
}

// TrimOWS strips optional whitespace (SP and HTAB) around s.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.3
func TrimOWS(s string) string {
	return strings.TrimFunc(s, IsOWS)
}
