package ginfile

import (
	"bytes"
	"fmt"
	"os"
)

// Encode renders m as one key=value line per entry, in insertion order.
// Values are written verbatim.
func Encode(m *Mapping) []byte {
	var buf bytes.Buffer
	for _, k := range m.keys {
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(m.values[k])
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteFile writes m to path, replacing any existing file.
func WriteFile(path string, m *Mapping) error {
	if err := os.WriteFile(path, Encode(m), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
