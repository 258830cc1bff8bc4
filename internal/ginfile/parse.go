package ginfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseLine splits a single template line into key and value.
// Everything from the first '#' is discarded before the split, and the split
// happens on the first '=' only. Whitespace is preserved on both sides.
// ok is false for blank, comment-only and '='-less lines.
func ParseLine(line string) (key, value string, ok bool) {
	line = strings.TrimRight(line, "\n")
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.Cut(line, "=")
}

// Parse reads assignments from r. Later lines win on duplicate keys.
func Parse(r io.Reader) (*Mapping, error) {
	m := NewMapping()
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if key, value, ok := ParseLine(line); ok {
			m.Set(key, value)
		}
		if errors.Is(err, io.EOF) {
			return m, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read template: %w", err)
		}
	}
}

// ReadFile parses the template stored at path.
func ReadFile(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}
