package ginfile

// Mapping is an insertion-ordered set of key/value assignments.
// Setting an existing key replaces its value but keeps its position.
type Mapping struct {
	keys   []string
	values map[string]string
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]string)}
}

// Set records value under key.
func (m *Mapping) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns a copy of the keys in insertion order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len reports the number of keys.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Clone returns an independent copy.
func (m *Mapping) Clone() *Mapping {
	out := &Mapping{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]string, len(m.values)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}
