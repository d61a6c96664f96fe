// Package form builds application/x-www-form-urlencoded request bodies.
package form

import (
	"http-engine/application/util/uri"
	"strings"
)

// Parameters is an ordered list of form parameters.
// Setting an existing key replaces its value in place.
type Parameters struct {
	keys   []string
	values map[string]string
}

func NewParameters(pairs ...[2]string) Parameters {
	p := Parameters{}
	for _, pair := range pairs {
		p.Set(pair[0], pair[1])
	}
	return p
}

func (p *Parameters) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *Parameters) Get(key string) (value string, ok bool) {
	value, ok = p.values[key]
	return
}

func (p *Parameters) Len() int { return len(p.keys) }

// Serialize joins the percent-encoded key=value pairs of p with '&', in insertion order.
func Serialize(p Parameters) string {
	b := new(strings.Builder)
	for i, key := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(uri.Escape(key))
		b.WriteByte('=')
		b.WriteString(uri.Escape(p.values[key]))
	}
	return b.String()
}
