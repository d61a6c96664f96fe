package http

// Headers is an ordered set of header fields.
// Keys are case-sensitive. Setting an existing key replaces its value
// and keeps the position of the first insertion.
//
// The zero value is an empty set ready to use.
type Headers struct {
	keys   []string
	values map[string]string
}

func NewHeaders(fields ...[2]string) Headers {
	h := Headers{}
	for _, f := range fields {
		h.Set(f[0], f[1])
	}
	return h
}

func (h *Headers) Set(key, value string) {
	if h.values == nil {
		h.values = make(map[string]string)
	}
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = value
}

func (h *Headers) Get(key string) (value string, ok bool) {
	value, ok = h.values[key]
	return
}

func (h *Headers) Has(key string) bool {
	_, ok := h.values[key]
	return ok
}

func (h *Headers) Len() int { return len(h.keys) }

// fields = [key, value]
func (h *Headers) Fields() (fields [][2]string) {
	fields = make([][2]string, 0, len(h.keys))
	for _, k := range h.keys {
		fields = append(fields, [2]string{k, h.values[k]})
	}

	return fields
}

func (h *Headers) Clone() Headers {
	return NewHeaders(h.Fields()...)
}
