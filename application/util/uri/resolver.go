package uri

import (
	"strings"

	"github.com/pkg/errors"
)

type RefResolver struct {
	base URI
}

func NewRefResolver(baseURI URI) (*RefResolver, error) {
	if baseURI.IsRelativeRef() {
		return nil, errors.New("baseURI cannot be relative ref")
	}
	return &RefResolver{base: baseURI}, nil
}

// Resolve transforms ref into a target URI with rr's base.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.2.2
func (rr *RefResolver) Resolve(ref URI) (out URI) {
	out = ref

	defer func() { out.Path = removeDotSegments(out.Path) }()

	if out.Scheme != "" {
		return out
	}
	out.Scheme = rr.base.Scheme

	if out.Authority != nil {
		return out
	}
	out.Authority = rr.base.Authority

	if out.Path != "" {
		if !strings.HasPrefix(out.Path, "/") {
			out.Path = mergePath(rr.base, out)
		}
		return out
	}
	out.Path = rr.base.Path

	if out.Query != nil {
		return out
	}
	out.Query = rr.base.Query

	return out
}

// ResolveString parses ref and resolves it against base.
func ResolveString(base, ref string) (string, error) {
	baseURI, err := Parse(base)
	if err != nil {
		return "", errors.Wrap(err, "parsing base")
	}

	resolver, err := NewRefResolver(baseURI)
	if err != nil {
		return "", err
	}

	refURI, err := Parse(ref)
	if err != nil {
		return "", errors.Wrap(err, "parsing reference")
	}

	resolved := resolver.Resolve(refURI)
	return resolved.String(), nil
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.2.3
func mergePath(base, ref URI) string {
	if base.Authority != nil && base.Path == "" {
		return "/" + ref.Path
	}

	if idx := strings.LastIndexByte(base.Path, '/'); idx >= 0 {
		return base.Path[:idx+1] + ref.Path
	}

	return ref.Path
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.2.4
func removeDotSegments(path string) string {
	out := make([]string, 0)
	pop := func() {
		if len(out) > 0 {
			out = out[:len(out)-1]
		}
	}

	for len(path) > 0 {
		var found bool
		// A. Drop leading "../" or "./".
		if path, found = strings.CutPrefix(path, "../"); found {
			continue
		}
		if path, found = strings.CutPrefix(path, "./"); found {
			continue
		}

		// B. Replace "/./" or a trailing "/." with "/".
		if path, found = strings.CutPrefix(path, "/./"); found {
			path = "/" + path
			continue
		} else if path == "/." {
			path = "/"
			continue
		}

		// C. Same as B for "/../" and "/..", removing the last output segment as well.
		if path, found = strings.CutPrefix(path, "/../"); found {
			pop()
			path = "/" + path
			continue
		} else if path == "/.." {
			pop()
			path = "/"
			continue
		}

		// D. Sole "." or "..".
		if path == ".." || path == "." {
			break
		}

		// E. Move the first segment, with its leading "/", to the output.
		idx := strings.IndexByte(path[1:], '/') + 1
		if idx == 0 {
			idx = len(path)
		}
		out = append(out, path[:idx])
		path = path[idx:]
	}

	return strings.Join(out, "")
}
